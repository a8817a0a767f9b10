package model

import (
	"fmt"
	"time"
)

// Theme is the display theme stored in user settings.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Validate implements the Enum contract used by the `enum` validator tag.
func (t Theme) Validate() error {
	switch t {
	case ThemeLight, ThemeDark:
		return nil
	default:
		return fmt.Errorf("unknown theme: %s", t)
	}
}

// Settings holds per-user display preferences. There is at most one row per
// UserKey, enforced by a unique constraint.
type Settings struct {
	UserKey   string    `json:"email"`
	Username  string    `json:"username"`
	Theme     Theme     `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}
