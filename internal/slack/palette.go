package slack

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ParseLevel normalizes user input; it does not check the level exists.
func ParseLevel(s string) Level {
	return Level(strings.ToLower(strings.TrimSpace(s)))
}

type Style struct {
	Title    string `yaml:"title"`
	Color    string `yaml:"color"`
	Priority string `yaml:"priority"`
}

// Palette maps a level to its default title, color and priority.
type Palette map[Level]Style

func DefaultPalette() Palette {
	return Palette{
		LevelSuccess: {Title: "Success", Color: "#00bb83", Priority: "Middle"},
		LevelInfo:    {Title: "Info", Color: "#009fbb", Priority: "Low"},
		LevelWarning: {Title: "Warning", Color: "#ffa32b", Priority: "Middle"},
		LevelError:   {Title: "Error", Color: "#ff0a54", Priority: "High"},
	}
}

// Resolve picks the style for level. An explicit color always wins; without
// one, an unknown level is a ConfigError.
func (p Palette) Resolve(level Level, color string) (Style, error) {
	level = ParseLevel(string(level))
	style, ok := p[level]
	color = strings.TrimSpace(color)
	if color != "" {
		if !ok {
			style = Style{Title: titleOf(level)}
		}
		style.Color = color
		return style, nil
	}
	if !ok {
		return Style{}, &ConfigError{Key: "level", Err: fmt.Errorf("%w %q", ErrUnknownLevel, string(level))}
	}
	return style, nil
}

func (p Palette) clone() Palette {
	out := make(Palette, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

type paletteFile struct {
	Levels map[string]Style `yaml:"levels"`
}

// LoadPalette returns the default palette with the levels from the YAML file
// at path merged in. Empty attributes keep their default values.
func LoadPalette(path string) (Palette, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette %q: %w", path, err)
	}
	var file paletteFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse palette %q: %w", path, err)
	}
	out := DefaultPalette()
	for name, style := range file.Levels {
		level := ParseLevel(name)
		if level == "" {
			continue
		}
		cur, ok := out[level]
		if !ok {
			cur = Style{Title: titleOf(level)}
		}
		if v := strings.TrimSpace(style.Title); v != "" {
			cur.Title = v
		}
		if v := strings.TrimSpace(style.Color); v != "" {
			cur.Color = v
		}
		if v := strings.TrimSpace(style.Priority); v != "" {
			cur.Priority = v
		}
		if cur.Color == "" {
			return nil, fmt.Errorf("palette %q: level %q has no color", path, name)
		}
		out[level] = cur
	}
	return out, nil
}

func titleOf(level Level) string {
	s := string(level)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
