package models

import (
	"fmt"
	"strings"
)

// Mode is the presentation transform applied to matched items.
type Mode string

const (
	ModeMosaic Mode = "mosaic"
	ModeRemove Mode = "remove"
	ModePurify Mode = "purify"
)

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeMosaic, ModeRemove, ModePurify:
		return m, nil
	default:
		return "", fmt.Errorf("models: unknown mode %q", s)
	}
}

// Valid returns true for the three supported modes.
func (m Mode) Valid() bool {
	return m == ModeMosaic || m == ModeRemove || m == ModePurify
}

// Label returns the short display name used in the status bar.
func (m Mode) Label() string {
	switch m {
	case ModePurify:
		return "순화"
	case ModeMosaic:
		return "모자이크"
	case ModeRemove:
		return "제거"
	default:
		return "알 수 없음"
	}
}

// SensitivityLevel controls how loosely related content must be to count as a match.
type SensitivityLevel int

const (
	SensitivityExact SensitivityLevel = 1 + iota
	SensitivityVariants
	SensitivityRelated
	SensitivityAssociated
)

// DefaultSensitivity is used when a level is out of range.
const DefaultSensitivity = SensitivityVariants

// Valid returns true when level is in range [1..4].
func (l SensitivityLevel) Valid() bool {
	return l >= SensitivityExact && l <= SensitivityAssociated
}

// Settings is a caller-owned snapshot of the filter configuration.
type Settings struct {
	Keywords         []string         `json:"keywords" yaml:"keywords"`
	SensitivityLevel SensitivityLevel `json:"sensitivity_level" yaml:"sensitivity_level"`
	Mode             Mode             `json:"mode" yaml:"mode"`
}

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Keywords:         []string{"욕설", "논란", "19금"},
		SensitivityLevel: DefaultSensitivity,
		Mode:             ModePurify,
	}
}

// CleanKeywords returns trimmed, non-blank, de-duplicated keywords in input order.
func CleanKeywords(keywords []string) []string {
	if len(keywords) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// Normalized returns a copy with cleaned keywords, an in-range level and a supported mode.
// Unknown or empty modes become ModePurify. The receiver is not modified.
func (s Settings) Normalized() Settings {
	out := Settings{
		Keywords:         CleanKeywords(s.Keywords),
		SensitivityLevel: s.SensitivityLevel,
		Mode:             s.Mode,
	}
	if !out.SensitivityLevel.Valid() {
		out.SensitivityLevel = DefaultSensitivity
	}
	if m, err := ParseMode(string(out.Mode)); err == nil {
		out.Mode = m
	} else {
		out.Mode = ModePurify
	}
	return out
}
