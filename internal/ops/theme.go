package ops

import (
	"context"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/settings"
)

// ThemeOutput reports the active theme.
type ThemeOutput struct {
	Theme settings.Theme `json:"theme"`
}

// GetTheme returns the active theme.
func GetTheme(ctx context.Context, sess *app.Session) (*ThemeOutput, error) {
	return &ThemeOutput{Theme: sess.Theme.Get()}, nil
}

// SetTheme sets the theme to dark or light.
func SetTheme(ctx context.Context, sess *app.Session, theme string) (*ThemeOutput, error) {
	if err := sess.Theme.Set(ctx, settings.Theme(theme)); err != nil {
		return nil, err
	}
	return &ThemeOutput{Theme: sess.Theme.Get()}, nil
}

// ToggleTheme flips the theme.
func ToggleTheme(ctx context.Context, sess *app.Session) (*ThemeOutput, error) {
	t, err := sess.Theme.Toggle(ctx)
	if err != nil {
		return nil, err
	}
	return &ThemeOutput{Theme: t}, nil
}
