package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var stringItems = map[string]any{"type": "string"}

var statusEnum = []string{"saved", "applied", "interview", "offer", "rejected"}

// searchParams are the fields shared by every tool that takes a search.
func searchParams(roleRequired bool) []mcp.ToolOption {
	role := []mcp.PropertyOption{mcp.Description("Job title or keywords, quoted verbatim in the query")}
	if roleRequired {
		role = append(role, mcp.Required())
	}
	return []mcp.ToolOption{
		mcp.WithString("role", role...),
		mcp.WithString("location", mcp.Description("Optional location, quoted verbatim")),
		mcp.WithArray("sites", mcp.Items(stringItems), mcp.Description("Catalog site ids (see catalog_sites), in selection order")),
		mcp.WithString("date_filter", mcp.Enum("", "d", "w", "m", "y"), mcp.Description("Recency: d=24h, w=week, m=month, y=year, empty=any")),
	}
}

func withSearch(roleRequired bool, opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts, searchParams(roleRequired)...)
}

var catalogSitesToolDef = mcp.NewTool("catalog_sites",
	mcp.WithDescription("List the job boards a search can target, grouped for display, plus the date filters."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var dorkBuildToolDef = mcp.NewTool("dork_build", withSearch(true,
	mcp.WithDescription("Build the search query and Google URL for a search without recording it. The blocklist is always applied."),
	mcp.WithReadOnlyHintAnnotation(true),
)...)

var searchPerformToolDef = mcp.NewTool("search_perform", withSearch(true,
	mcp.WithDescription("Run a search: record it in history (newest first, capped at 50), make it current, and return the query and URL to open."),
)...)

var searchCurrentToolDef = mcp.NewTool("search_current",
	mcp.WithDescription("Return the current search params with their query and URL, or null when none is set."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var historyListToolDef = mcp.NewTool("history_list",
	mcp.WithDescription("List search history, newest first."),
	mcp.WithNumber("limit", mcp.Description("Max entries (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Entries to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var historyClearToolDef = mcp.NewTool("history_clear",
	mcp.WithDescription("Delete all search history."),
	mcp.WithDestructiveHintAnnotation(true),
)

var historyApplyToolDef = mcp.NewTool("history_apply",
	mcp.WithDescription("Make a history entry the current search. applied is false when the id is unknown."),
	mcp.WithString("id", mcp.Required(), mcp.Description("History entry id")),
)

var presetSaveToolDef = mcp.NewTool("preset_save", withSearch(false,
	mcp.WithDescription("Save a named preset. With a role, the given search is saved; otherwise the current search (or newest history entry) is. saved is false when there is nothing to save."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Preset name")),
)...)

var presetListToolDef = mcp.NewTool("preset_list",
	mcp.WithDescription("List saved presets in creation order."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var presetApplyToolDef = mcp.NewTool("preset_apply",
	mcp.WithDescription("Make a preset the current search. applied is false when the id is unknown."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Preset id")),
)

var presetDeleteToolDef = mcp.NewTool("preset_delete",
	mcp.WithDescription("Delete a preset. deleted is false when the id is unknown."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Preset id")),
	mcp.WithDestructiveHintAnnotation(true),
)

var jobAddToolDef = mcp.NewTool("job_add",
	mcp.WithDescription("Add a job application to the board."),
	mcp.WithString("role", mcp.Required(), mcp.Description("Job title")),
	mcp.WithString("company", mcp.Required(), mcp.Description("Company name")),
	mcp.WithString("status", mcp.Enum(statusEnum...), mcp.Description("Column (default saved)")),
	mcp.WithString("link", mcp.Description("Posting URL")),
	mcp.WithString("salary", mcp.Description("Salary, free text")),
	mcp.WithString("location", mcp.Description("Location, free text")),
	mcp.WithString("notes", mcp.Description("Notes (markdown)")),
)

var jobGetToolDef = mcp.NewTool("job_get",
	mcp.WithDescription("Fetch one application by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var jobListToolDef = mcp.NewTool("job_list",
	mcp.WithDescription("List applications, most recently updated first."),
	mcp.WithString("status", mcp.Enum(statusEnum...), mcp.Description("Only this column")),
	mcp.WithNumber("limit", mcp.Description("Max items (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var jobBoardToolDef = mcp.NewTool("job_board",
	mcp.WithDescription("Return the kanban board: five columns in order, each newest-updated first."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var jobMoveToolDef = mcp.NewTool("job_move",
	mcp.WithDescription("Move an application to a column, exactly as a drag and drop would. Moving to its own column changes nothing."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
	mcp.WithString("status", mcp.Required(), mcp.Enum(statusEnum...), mcp.Description("Target column")),
)

var jobNotesToolDef = mcp.NewTool("job_notes",
	mcp.WithDescription("Replace an application's notes. Omit notes to leave them unchanged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
	mcp.WithString("notes", mcp.Description("New notes; an empty string clears them")),
)

var jobDeleteToolDef = mcp.NewTool("job_delete",
	mcp.WithDescription("Delete an application. deleted is false when the id is unknown."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Application id")),
	mcp.WithDestructiveHintAnnotation(true),
)

var blocklistAddToolDef = mcp.NewTool("blocklist_add",
	mcp.WithDescription("Exclude a company from every search query. Names are trimmed and must be unique."),
	mcp.WithString("company", mcp.Required(), mcp.Description("Company name")),
)

var blocklistRemoveToolDef = mcp.NewTool("blocklist_remove",
	mcp.WithDescription("Stop excluding a company. changed is false when it was not blocked."),
	mcp.WithString("company", mcp.Required(), mcp.Description("Company name, exact match")),
)

var blocklistListToolDef = mcp.NewTool("blocklist_list",
	mcp.WithDescription("List blocked companies in insertion order."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var blocklistImportToolDef = mcp.NewTool("blocklist_import",
	mcp.WithDescription("Merge a .csv or .txt file (one company per line) into the blocklist. Existing names are kept once."),
	mcp.WithString("path", mcp.Required(), mcp.Description("File to read")),
)

var blocklistExportToolDef = mcp.NewTool("blocklist_export",
	mcp.WithDescription("Write the blocklist to a file, one company per line. Defaults to ~/.jobdork/exports/jobtracker_blocklist.csv."),
	mcp.WithString("path", mcp.Description("Destination .csv or .txt")),
)

var themeGetToolDef = mcp.NewTool("theme_get",
	mcp.WithDescription("Return the UI theme."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var themeSetToolDef = mcp.NewTool("theme_set",
	mcp.WithDescription("Set the UI theme."),
	mcp.WithString("theme", mcp.Required(), mcp.Enum("dark", "light")),
)

var themeToggleToolDef = mcp.NewTool("theme_toggle",
	mcp.WithDescription("Switch between the dark and light theme."),
)

var statsSummaryToolDef = mcp.NewTool("stats_summary",
	mcp.WithDescription("Search analytics (total searches, distinct sites, top roles) and application counts per column."),
	mcp.WithReadOnlyHintAnnotation(true),
)
