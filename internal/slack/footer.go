package slack

import (
	"encoding/hex"
	"strconv"
	"time"

	"golang.org/x/crypto/blake2b"
)

const footerHashBytes = 5

// FooterHash is a short correlation tag for related messages. It depends on
// title, message, the capture time truncated to the second and pid only.
// Not for security use.
func FooterHash(title, message string, at time.Time, pid int) string {
	h, err := blake2b.New(footerHashBytes, nil)
	if err != nil {
		panic(err)
	}
	for _, part := range []string{title, message, strconv.FormatInt(at.Unix(), 10), strconv.Itoa(pid)} {
		_, _ = h.Write([]byte(part))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
