package sound

import (
	"fmt"
	"strings"
)

// Selection picks which of the two click sounds is played.
type Selection int

const (
	Primary Selection = iota
	Secondary
)

// Valid reports whether s is a known selection.
func (s Selection) Valid() bool {
	return s == Primary || s == Secondary
}

// String returns the asset name of the selection.
func (s Selection) String() string {
	switch s {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return fmt.Sprintf("selection(%d)", int(s))
	}
}

// Toggle returns the other selection.
func (s Selection) Toggle() Selection {
	if s == Primary {
		return Secondary
	}
	return Primary
}

// ParseSelection converts an asset name into a Selection. "click" and "quack" are accepted as aliases.
func ParseSelection(name string) (Selection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "primary", "click":
		return Primary, nil
	case "secondary", "quack":
		return Secondary, nil
	}
	return Primary, fmt.Errorf("unknown sound %q", name)
}
