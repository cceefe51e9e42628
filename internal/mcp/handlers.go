package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/catalog"
	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/logging"
	"github.com/hpungsan/jobdork/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	sess *app.Session
	log  logging.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sess *app.Session, log logging.Logger) *Handlers {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handlers{sess: sess, log: log}
}

// Request types

// SearchRequest carries search params for dork_build and search_perform.
type SearchRequest struct {
	Role       string   `json:"role"`
	Location   string   `json:"location,omitempty"`
	Sites      []string `json:"sites,omitempty"`
	DateFilter string   `json:"date_filter,omitempty"`
}

func (r SearchRequest) input() ops.BuildDorkInput {
	return ops.BuildDorkInput{
		Role:       r.Role,
		Location:   r.Location,
		Sites:      r.Sites,
		DateFilter: r.DateFilter,
	}
}

// PageRequest carries pagination.
type PageRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// IDRequest addresses one entity.
type IDRequest struct {
	ID string `json:"id"`
}

// PresetSaveRequest represents the arguments for preset_save.
type PresetSaveRequest struct {
	Name string `json:"name"`
	SearchRequest
}

// JobAddRequest represents the arguments for job_add.
type JobAddRequest struct {
	Role     string `json:"role"`
	Company  string `json:"company"`
	Status   string `json:"status,omitempty"`
	Link     string `json:"link,omitempty"`
	Salary   string `json:"salary,omitempty"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// JobListRequest represents the arguments for job_list.
type JobListRequest struct {
	Status string `json:"status,omitempty"`
	PageRequest
}

// JobMoveRequest represents the arguments for job_move.
type JobMoveRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// JobNotesRequest represents the arguments for job_notes.
type JobNotesRequest struct {
	ID    string  `json:"id"`
	Notes *string `json:"notes,omitempty"`
}

// CompanyRequest represents the arguments for blocklist_add/remove.
type CompanyRequest struct {
	Company string `json:"company"`
}

// PathRequest represents the arguments for blocklist_import/export.
type PathRequest struct {
	Path string `json:"path,omitempty"`
}

// ThemeRequest represents the arguments for theme_set.
type ThemeRequest struct {
	Theme string `json:"theme"`
}

// CatalogOutput is returned by catalog_sites.
type CatalogOutput struct {
	Groups      []catalog.Group `json:"groups"`
	DateFilters []DateFilterRef `json:"date_filters"`
}

// DateFilterRef names one date filter.
type DateFilterRef struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// decode unmarshals tool arguments into T. Bad arguments are INVALID_REQUEST.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, errors.NewInvalidRequest(fmt.Sprintf("marshal args: %v", err))
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, errors.NewInvalidRequest(fmt.Sprintf("invalid arguments: %v", err))
	}
	return result, nil
}

// call decodes T and runs fn, converting any failure into an error result.
func call[T, R any](ctx context.Context, req mcp.CallToolRequest, fn func(context.Context, T) (R, error)) (*mcp.CallToolResult, error) {
	input, err := decode[T](req)
	if err != nil {
		return errorResult(err), nil
	}
	out, err := fn(ctx, input)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// Handler implementations

// HandleCatalogSites handles catalog_sites.
func (h *Handlers) HandleCatalogSites(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out := CatalogOutput{Groups: catalog.Groups()}
	for _, f := range catalog.DateFilters {
		out.DateFilters = append(out.DateFilters, DateFilterRef{Value: string(f), Label: f.Label()})
	}
	return successResult(out)
}

// HandleDorkBuild handles dork_build.
func (h *Handlers) HandleDorkBuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in SearchRequest) (*ops.BuildDorkOutput, error) {
		return ops.BuildDork(ctx, h.sess, in.input())
	})
}

// HandleSearchPerform handles search_perform.
func (h *Handlers) HandleSearchPerform(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in SearchRequest) (*ops.PerformSearchOutput, error) {
		out, err := ops.PerformSearch(ctx, h.sess, in.input())
		if err == nil {
			h.log.Info("search performed", logging.String("history_id", out.HistoryID))
		}
		return out, err
	})
}

// HandleSearchCurrent handles search_current.
func (h *Handlers) HandleSearchCurrent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.CurrentSearch(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleHistoryList handles history_list.
func (h *Handlers) HandleHistoryList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in PageRequest) (*ops.ListHistoryOutput, error) {
		return ops.ListHistory(ctx, h.sess, ops.ListHistoryInput{Limit: in.Limit, Offset: in.Offset})
	})
}

// HandleHistoryClear handles history_clear.
func (h *Handlers) HandleHistoryClear(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.ClearHistory(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleHistoryApply handles history_apply.
func (h *Handlers) HandleHistoryApply(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in IDRequest) (*ops.ApplyOutput, error) {
		if in.ID == "" {
			return nil, errors.NewInvalidRequest("id is required")
		}
		return ops.ApplyHistory(ctx, h.sess, in.ID)
	})
}

// HandlePresetSave handles preset_save.
func (h *Handlers) HandlePresetSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in PresetSaveRequest) (*ops.SavePresetOutput, error) {
		input := ops.SavePresetInput{Name: in.Name, FromLatest: true}
		if in.Role != "" {
			s := in.SearchRequest.input()
			input.Search = &s
		}
		return ops.SavePreset(ctx, h.sess, input)
	})
}

// HandlePresetList handles preset_list.
func (h *Handlers) HandlePresetList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.ListPresets(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandlePresetApply handles preset_apply.
func (h *Handlers) HandlePresetApply(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in IDRequest) (*ops.ApplyOutput, error) {
		if in.ID == "" {
			return nil, errors.NewInvalidRequest("id is required")
		}
		return ops.ApplyPreset(ctx, h.sess, in.ID)
	})
}

// HandlePresetDelete handles preset_delete.
func (h *Handlers) HandlePresetDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in IDRequest) (*ops.DeleteOutput, error) {
		if in.ID == "" {
			return nil, errors.NewInvalidRequest("id is required")
		}
		return ops.DeletePreset(ctx, h.sess, in.ID)
	})
}

// HandleJobAdd handles job_add.
func (h *Handlers) HandleJobAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in JobAddRequest) (*ops.AddJobOutput, error) {
		return ops.AddJob(ctx, h.sess, ops.AddJobInput{
			Role:     in.Role,
			Company:  in.Company,
			Status:   in.Status,
			Link:     in.Link,
			Salary:   in.Salary,
			Location: in.Location,
			Notes:    in.Notes,
		})
	})
}

// HandleJobGet handles job_get.
func (h *Handlers) HandleJobGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in IDRequest) (any, error) {
		return ops.GetJob(ctx, h.sess, in.ID)
	})
}

// HandleJobList handles job_list.
func (h *Handlers) HandleJobList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in JobListRequest) (*ops.ListJobsOutput, error) {
		return ops.ListJobs(ctx, h.sess, ops.ListJobsInput{Status: in.Status, Limit: in.Limit, Offset: in.Offset})
	})
}

// HandleJobBoard handles job_board.
func (h *Handlers) HandleJobBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.Board(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleJobMove handles job_move.
func (h *Handlers) HandleJobMove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in JobMoveRequest) (any, error) {
		return ops.MoveJob(ctx, h.sess, ops.MoveJobInput{ID: in.ID, Status: in.Status})
	})
}

// HandleJobNotes handles job_notes.
func (h *Handlers) HandleJobNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in JobNotesRequest) (*ops.EditNotesOutput, error) {
		out, err := ops.EditNotes(ctx, h.sess, ops.EditNotesInput{ID: in.ID, Notes: in.Notes})
		if err != nil {
			return nil, err
		}
		if out.Job == nil {
			return nil, errors.NewNotFound("job", in.ID)
		}
		return out, nil
	})
}

// HandleJobDelete handles job_delete.
func (h *Handlers) HandleJobDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in IDRequest) (*ops.DeleteOutput, error) {
		return ops.DeleteJob(ctx, h.sess, in.ID)
	})
}

// HandleBlocklistAdd handles blocklist_add.
func (h *Handlers) HandleBlocklistAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in CompanyRequest) (*ops.BlocklistOutput, error) {
		return ops.AddBlocked(ctx, h.sess, in.Company)
	})
}

// HandleBlocklistRemove handles blocklist_remove.
func (h *Handlers) HandleBlocklistRemove(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in CompanyRequest) (*ops.BlocklistOutput, error) {
		return ops.RemoveBlocked(ctx, h.sess, in.Company)
	})
}

// HandleBlocklistList handles blocklist_list.
func (h *Handlers) HandleBlocklistList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.ListBlocked(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleBlocklistImport handles blocklist_import.
func (h *Handlers) HandleBlocklistImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in PathRequest) (*ops.ImportBlocklistOutput, error) {
		if in.Path == "" {
			return nil, errors.NewInvalidRequest("path is required")
		}
		return ops.ImportBlocklist(ctx, h.sess, in.Path)
	})
}

// HandleBlocklistExport handles blocklist_export.
func (h *Handlers) HandleBlocklistExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in PathRequest) (*ops.ExportBlocklistOutput, error) {
		return ops.ExportBlocklist(ctx, h.sess, in.Path)
	})
}

// HandleThemeGet handles theme_get.
func (h *Handlers) HandleThemeGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.GetTheme(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleThemeSet handles theme_set.
func (h *Handlers) HandleThemeSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, req, func(ctx context.Context, in ThemeRequest) (*ops.ThemeOutput, error) {
		return ops.SetTheme(ctx, h.sess, in.Theme)
	})
}

// HandleThemeToggle handles theme_toggle.
func (h *Handlers) HandleThemeToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.ToggleTheme(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleStatsSummary handles stats_summary.
func (h *Handlers) HandleStatsSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ops.Stats(ctx, h.sess)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// INTERNAL errors carry a generic message and never their details.
func errorResult(err error) *mcp.CallToolResult {
	var errorObj map[string]any

	if jErr, ok := errors.As(err); ok && jErr.Code != errors.ErrInternal {
		errorObj = map[string]any{
			"code":    jErr.Code,
			"message": jErr.Message,
			"status":  jErr.Status,
		}
		if jErr.Details != nil {
			errorObj["details"] = jErr.Details
		}
	} else {
		errorObj = map[string]any{
			"code":    errors.ErrInternal,
			"message": "an internal error occurred",
			"status":  500,
		}
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
