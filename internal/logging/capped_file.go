package logging

import (
	"os"
	"sync"
)

// cappedFile appends to a log file and starts it over once the next write
// would push it past limit bytes.
type cappedFile struct {
	mu    sync.Mutex
	path  string
	limit int64
	f     *os.File
	n     int64
}

func newCappedFile(path string, maxMB int) (*cappedFile, error) {
	if maxMB <= 0 {
		maxMB = 10
	}
	c := &cappedFile{path: path, limit: int64(maxMB) << 20}
	if err := c.open(os.O_APPEND); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cappedFile) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.f == nil:
		if err := c.open(os.O_APPEND); err != nil {
			return 0, err
		}
		if c.n+int64(len(p)) > c.limit {
			if err := c.reset(); err != nil {
				return 0, err
			}
		}
	case c.n+int64(len(p)) > c.limit:
		if err := c.reset(); err != nil {
			return 0, err
		}
	}
	n, err := c.f.Write(p)
	c.n += int64(n)
	return n, err
}

func (c *cappedFile) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	return err
}

func (c *cappedFile) reset() error {
	if c.f != nil {
		_ = c.f.Close()
		c.f = nil
	}
	return c.open(os.O_TRUNC)
}

func (c *cappedFile) open(mode int) error {
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|mode, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	c.f = f
	c.n = info.Size()
	return nil
}
