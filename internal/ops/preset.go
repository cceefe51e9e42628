package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/search"
)

// SavePresetInput contains parameters for the SavePreset operation.
type SavePresetInput struct {
	Name string // required
	// Search, when set, becomes the current search before the snapshot.
	// Callers without a long-lived session (CLI, MCP) use it.
	Search *BuildDorkInput
	// FromLatest applies the newest history entry first when there is no current search.
	FromLatest bool
}

// SavePresetOutput contains the result of the SavePreset operation.
type SavePresetOutput struct {
	Saved  bool           `json:"saved"`
	Preset *search.Preset `json:"preset,omitempty"`
}

// SavePreset snapshots the current search under a name. Saved is false when
// there is nothing to snapshot.
func SavePreset(ctx context.Context, sess *app.Session, input SavePresetInput) (*SavePresetOutput, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}

	if input.Search != nil {
		params, err := validateParams(*input.Search)
		if err != nil {
			return nil, err
		}
		sess.Search.ApplyPreset(search.Preset{Params: params})
	} else if input.FromLatest && sess.Search.Current() == nil {
		if h := sess.Search.History(); len(h) > 0 {
			sess.Search.ApplyHistory(h[0])
		}
	}

	p, ok, err := sess.Search.SavePreset(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	return &SavePresetOutput{Saved: ok, Preset: p}, nil
}

// ListPresetsOutput contains the result of the ListPresets operation.
type ListPresetsOutput struct {
	Items []search.Preset `json:"items"`
	Total int             `json:"total"`
}

// ListPresets returns every preset in creation order.
func ListPresets(ctx context.Context, sess *app.Session) (*ListPresetsOutput, error) {
	items := sess.Search.Presets()
	return &ListPresetsOutput{Items: items, Total: len(items)}, nil
}

// DeleteOutput is returned by delete operations. Deleted is false when the
// id was not found.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// DeletePreset removes a preset.
func DeletePreset(ctx context.Context, sess *app.Session, id string) (*DeleteOutput, error) {
	deleted, err := sess.Search.DeletePreset(ctx, id)
	if err != nil {
		return nil, err
	}
	return &DeleteOutput{Deleted: deleted, ID: id}, nil
}

// ApplyPreset makes a preset the current search.
func ApplyPreset(ctx context.Context, sess *app.Session, id string) (*ApplyOutput, error) {
	p, ok := sess.Search.ApplyPresetID(id)
	if !ok {
		return &ApplyOutput{ID: id}, nil
	}
	return applied(sess, id, p.Params), nil
}
