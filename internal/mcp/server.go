package mcp

import (
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/logging"
)

// KnownTypes lists all valid type names.
var KnownTypes = []string{"catalog", "dork", "search", "history", "preset", "job", "blocklist", "theme", "stats"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"catalog_sites":    {catalogSitesToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleCatalogSites }},
	"dork_build":       {dorkBuildToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleDorkBuild }},
	"search_perform":   {searchPerformToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearchPerform }},
	"search_current":   {searchCurrentToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleSearchCurrent }},
	"history_list":     {historyListToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryList }},
	"history_clear":    {historyClearToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryClear }},
	"history_apply":    {historyApplyToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistoryApply }},
	"preset_save":      {presetSaveToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetSave }},
	"preset_list":      {presetListToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetList }},
	"preset_apply":     {presetApplyToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetApply }},
	"preset_delete":    {presetDeleteToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandlePresetDelete }},
	"job_add":          {jobAddToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleJobAdd }},
	"job_get":          {jobGetToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleJobGet }},
	"job_list":         {jobListToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleJobList }},
	"job_board":        {jobBoardToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleJobBoard }},
	"job_move":         {jobMoveToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleJobMove }},
	"job_notes":        {jobNotesToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleJobNotes }},
	"job_delete":       {jobDeleteToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleJobDelete }},
	"blocklist_add":    {blocklistAddToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlocklistAdd }},
	"blocklist_remove": {blocklistRemoveToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlocklistRemove }},
	"blocklist_list":   {blocklistListToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlocklistList }},
	"blocklist_import": {blocklistImportToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlocklistImport }},
	"blocklist_export": {blocklistExportToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleBlocklistExport }},
	"theme_get":        {themeGetToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleThemeGet }},
	"theme_set":        {themeSetToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleThemeSet }},
	"theme_toggle":     {themeToggleToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleThemeToggle }},
	"stats_summary":    {statsSummaryToolDef, func(h *Handlers) server.ToolHandlerFunc { return h.HandleStatsSummary }},
}

// AllToolNames returns every registered tool name, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name
// ("job_move" → "job").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}
	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		if typeSet[GetTypeForTool(name)] {
			tools = append(tools, name)
		}
	}
	sort.Strings(tools)
	return tools
}

// NewServer creates an MCP server exposing the session's operations.
// Tools listed in DisabledTools or belonging to DisabledTypes are skipped.
func NewServer(sess *app.Session, version string, log logging.Logger) *server.MCPServer {
	if log == nil {
		log = logging.NewNop()
	}
	s := server.NewMCPServer(
		"jobdork",
		version,
		server.WithToolCapabilities(true),
	)

	cfg := sess.Config
	if unknown := ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		log.Warn("unknown disabled_tools entries", logging.Strings("tools", unknown))
	}
	if unknown := ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		log.Warn("unknown disabled_types entries", logging.Strings("types", unknown))
	}

	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	h := NewHandlers(sess, log)
	registered := 0
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
		registered++
	}
	log.Debug("mcp tools registered", logging.Int("count", registered))

	return s
}

// Run serves the session over stdio until stdin closes.
func Run(sess *app.Session, version string, log logging.Logger) error {
	return server.ServeStdio(NewServer(sess, version, log))
}
