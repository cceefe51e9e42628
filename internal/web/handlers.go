package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/blocklist"
	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/catalog"
	"github.com/hpungsan/jobdork/internal/errors"
	"github.com/hpungsan/jobdork/internal/kanban"
	"github.com/hpungsan/jobdork/internal/logging"
	"github.com/hpungsan/jobdork/internal/metrics"
	"github.com/hpungsan/jobdork/internal/ops"
	"github.com/hpungsan/jobdork/internal/search"
)

const (
	maxUploadBytes = 1 << 20
	maxJSONBytes   = 1 << 16
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	sess     *app.Session
	renderer *Renderer
	metrics  *metrics.Metrics
	log      logging.Logger
}

func (h *Handlers) page(title, nav string) PageData {
	return PageData{
		Title:   title,
		Version: h.renderer.version,
		Nav:     nav,
		Theme:   h.sess.Theme.Get(),
	}
}

// done finishes a form action. JSON clients get the result, htmx gets an
// HX-Redirect and plain browsers a 303.
func (h *Handlers) done(w http.ResponseWriter, r *http.Request, to string, result any) {
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// HandleSearchPage handles GET /search. Form values, when present, override
// the current search so group toggles and previews need no state change.
func (h *Handlers) HandleSearchPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()
	data := SearchPageData{PageData: h.page("Search", "search")}

	var in ops.BuildDorkInput
	if q.Has("role") || q.Has("sites") || q.Has("toggle_group") {
		in = searchInput(q)
		if title := q.Get("toggle_group"); title != "" {
			for _, g := range catalog.Groups() {
				if g.Title == title {
					in.Sites = catalog.ToggleGroup(in.Sites, g)
				}
			}
		}
	} else if cur, err := ops.CurrentSearch(ctx, h.sess); err == nil && cur.Current != nil {
		in = ops.BuildDorkInput{
			Role:       cur.Current.Role,
			Location:   cur.Current.Location,
			Sites:      cur.Current.Sites,
			DateFilter: string(cur.Current.DateFilter),
		}
	}

	data.Role = in.Role
	data.Location = in.Location
	data.Groups = siteGroups(in.Sites)
	data.Dates = dateOptions(in.DateFilter)

	if strings.TrimSpace(in.Role) != "" {
		out, err := ops.BuildDork(ctx, h.sess, in)
		if err != nil {
			if jErr, ok := errors.As(err); ok && jErr.Code == errors.ErrInvalidRequest {
				data.Notice = jErr.Message
			} else {
				h.renderer.renderError(w, r, err)
				return
			}
		} else {
			data.Query = out.Query
			data.URL = out.URL
		}
	}

	history, err := ops.ListHistory(ctx, h.sess, ops.ListHistoryInput{Limit: search.MaxHistory})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	presets, err := ops.ListPresets(ctx, h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	stats, err := ops.Stats(ctx, h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data.History = history.Items
	data.Presets = presets.Items
	data.Blocklist = h.sess.Blocklist.Companies()
	data.Summary = stats.Search

	h.renderer.renderPage(w, r, "search", data)
}

// HandlePerformSearch handles POST /search: record the search and send the
// browser to the results.
func (h *Handlers) HandlePerformSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	out, err := ops.PerformSearch(r.Context(), h.sess, searchInput(r.PostForm))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.metrics.Searches.Inc()
	h.done(w, r, out.URL, out)
}

// HandleClearHistory handles POST /history/clear.
func (h *Handlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ClearHistory(r.Context(), h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/search", out)
}

// HandleApplyHistory handles POST /history/{id}/apply.
func (h *Handlers) HandleApplyHistory(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ApplyHistory(r.Context(), h.sess, r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/search", out)
}

// HandleSavePreset handles POST /presets. The posted search fields are saved
// when a role is given, otherwise the current search is.
func (h *Handlers) HandleSavePreset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	input := ops.SavePresetInput{Name: r.PostForm.Get("name"), FromLatest: true}
	if strings.TrimSpace(r.PostForm.Get("role")) != "" {
		s := searchInput(r.PostForm)
		input.Search = &s
	}
	out, err := ops.SavePreset(r.Context(), h.sess, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/search", out)
}

// HandleApplyPreset handles POST /presets/{id}/apply.
func (h *Handlers) HandleApplyPreset(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ApplyPreset(r.Context(), h.sess, r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/search", out)
}

// HandleDeletePreset handles POST /presets/{id}/delete.
func (h *Handlers) HandleDeletePreset(w http.ResponseWriter, r *http.Request) {
	out, err := ops.DeletePreset(r.Context(), h.sess, r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/search", out)
}

// HandleAddBlocked handles POST /blocklist.
func (h *Handlers) HandleAddBlocked(w http.ResponseWriter, r *http.Request) {
	out, err := ops.AddBlocked(r.Context(), h.sess, r.FormValue("company"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/search", out)
}

// HandleRemoveBlocked handles POST /blocklist/remove.
func (h *Handlers) HandleRemoveBlocked(w http.ResponseWriter, r *http.Request) {
	out, err := ops.RemoveBlocked(r.Context(), h.sess, r.FormValue("company"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/search", out)
}

// HandleExportBlocklist handles GET /blocklist/export as a CSV download.
func (h *Handlers) HandleExportBlocklist(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if _, err := ops.ExportBlocklistTo(r.Context(), h.sess, &buf); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+blocklist.ExportFileName)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// HandleImportBlocklist handles POST /blocklist/import (multipart field "file").
func (h *Handlers) HandleImportBlocklist(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid upload"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("file is required"))
		return
	}
	defer file.Close()

	out, err := ops.ImportBlocklistFrom(r.Context(), h.sess, file)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, "/search", out)
}

// HandleToggleTheme handles POST /theme/toggle.
func (h *Handlers) HandleToggleTheme(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ToggleTheme(r.Context(), h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.done(w, r, localPath(r.FormValue("next"), "/search"), out)
}

// HandleBoard handles GET /board.
func (h *Handlers) HandleBoard(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Board(r.Context(), h.sess)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}

	cols := make([]ColumnData, 0, len(out.Columns))
	for _, c := range out.Columns {
		cards := make([]CardData, 0, len(c.Applications))
		for _, a := range c.Applications {
			card := CardData{Application: a}
			if a.Notes != nil && *a.Notes != "" {
				card.NotesHTML = renderMarkdown(*a.Notes)
			}
			cards = append(cards, card)
		}
		cols = append(cols, ColumnData{Status: c.Status, Title: c.Title, Cards: cards})
	}

	h.renderer.renderPage(w, r, "board", BoardPageData{
		PageData: h.page("Job Board", "board"),
		Columns:  cols,
		Statuses: board.Statuses,
		Total:    out.Total,
	})
}

// HandleAddJob handles POST /board/jobs.
func (h *Handlers) HandleAddJob(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	f := r.PostForm
	out, err := ops.AddJob(r.Context(), h.sess, ops.AddJobInput{
		Role:     f.Get("role"),
		Company:  f.Get("company"),
		Status:   f.Get("status"),
		Link:     f.Get("link"),
		Salary:   f.Get("salary"),
		Location: f.Get("location"),
		Notes:    f.Get("notes"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.syncJobGauges()
	h.done(w, r, "/board", out)
}

// HandleEditNotes handles POST /board/jobs/{id}/notes. A "cancel" field
// leaves the notes untouched.
func (h *Handlers) HandleEditNotes(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	input := ops.EditNotesInput{ID: r.PathValue("id")}
	if !r.PostForm.Has("cancel") {
		notes := r.PostForm.Get("notes")
		input.Notes = &notes
	}
	out, err := ops.EditNotes(r.Context(), h.sess, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if input.Notes != nil && out.Job == nil {
		h.renderer.renderError(w, r, errors.NewNotFound("job", input.ID))
		return
	}
	h.done(w, r, "/board", out)
}

// HandleMoveJob handles POST /board/jobs/{id}/move, the no-script
// equivalent of dragging a card onto a column.
func (h *Handlers) HandleMoveJob(w http.ResponseWriter, r *http.Request) {
	res, err := ops.MoveJob(r.Context(), h.sess, ops.MoveJobInput{
		ID:     r.PathValue("id"),
		Status: r.FormValue("status"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.recordMove(*res)
	h.done(w, r, "/board", res)
}

// HandleDeleteJob handles POST /board/jobs/{id}/delete.
func (h *Handlers) HandleDeleteJob(w http.ResponseWriter, r *http.Request) {
	out, err := ops.DeleteJob(r.Context(), h.sess, r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.syncJobGauges()
	h.done(w, r, "/board", out)
}

type dragRequest struct {
	ID     string `json:"id"`
	Target string `json:"target"` // "column:<status>", "card:<id>", or "" for none
}

type dragState struct {
	Dragging bool   `json:"dragging"`
	ActiveID string `json:"active_id"`
}

type dragPreview struct {
	OK      bool            `json:"ok"`
	Preview *kanban.Preview `json:"preview,omitempty"`
}

// HandleDragStart handles POST /board/drag/start.
func (h *Handlers) HandleDragStart(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDrag(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	ok := h.sess.Kanban.Start(req.ID)
	renderJSON(w, http.StatusOK, dragState{Dragging: ok, ActiveID: h.sess.Kanban.ActiveID()})
}

// HandleDragOver handles POST /board/drag/over. It never changes the board.
func (h *Handlers) HandleDragOver(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDrag(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	t, err := kanban.ParseTarget(req.Target)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	p, ok := h.sess.Kanban.Over(t)
	out := dragPreview{OK: ok}
	if ok {
		out.Preview = &p
	}
	renderJSON(w, http.StatusOK, out)
}

// HandleDragEnd handles POST /board/drag/end. An empty target cancels the drag.
func (h *Handlers) HandleDragEnd(w http.ResponseWriter, r *http.Request) {
	req, err := decodeDrag(r)
	if err != nil {
		h.sess.Kanban.Cancel()
		h.renderer.renderError(w, r, err)
		return
	}

	var target *kanban.Target
	if strings.TrimSpace(req.Target) != "" {
		t, err := kanban.ParseTarget(req.Target)
		if err != nil {
			h.sess.Kanban.Cancel()
			h.renderer.renderError(w, r, err)
			return
		}
		target = &t
	}

	res, err := h.sess.Kanban.Drop(r.Context(), target)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	h.recordMove(res)
	renderJSON(w, http.StatusOK, res)
}

func (h *Handlers) recordMove(res kanban.DropResult) {
	if !res.Moved {
		return
	}
	h.metrics.Moves.WithLabelValues(string(res.To)).Inc()
	h.log.Info("job moved",
		logging.String("id", res.ActiveID),
		logging.String("from", string(res.From)),
		logging.String("to", string(res.To)),
	)
	h.syncJobGauges()
}

// syncJobGauges publishes the current column sizes.
func (h *Handlers) syncJobGauges() {
	counts := make(map[string]int, len(board.Statuses))
	for s, n := range board.Counts(h.sess.Board.Applications()) {
		counts[string(s)] = n
	}
	h.metrics.SetJobCounts(counts)
}

func decodeDrag(r *http.Request) (dragRequest, error) {
	var req dragRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBytes))
	if err := dec.Decode(&req); err != nil && err != io.EOF {
		return dragRequest{}, errors.NewInvalidRequest("invalid JSON body")
	}
	return req, nil
}

// searchInput reads the search form fields.
func searchInput(v map[string][]string) ops.BuildDorkInput {
	get := func(k string) string {
		if vs := v[k]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	return ops.BuildDorkInput{
		Role:       get("role"),
		Location:   get("location"),
		Sites:      v["sites"],
		DateFilter: get("date_filter"),
	}
}

func siteGroups(selected []string) []SiteGroup {
	on := make(map[string]bool, len(selected))
	for _, id := range selected {
		on[id] = true
	}
	groups := catalog.Groups()
	out := make([]SiteGroup, 0, len(groups))
	for _, g := range groups {
		sg := SiteGroup{Title: g.Title}
		for _, s := range g.Sites {
			sg.Sites = append(sg.Sites, SiteOption{JobSite: s, Checked: on[s.ID]})
		}
		out = append(out, sg)
	}
	return out
}

func dateOptions(current string) []DateOption {
	cur, _ := catalog.ParseDateFilter(current)
	out := make([]DateOption, 0, len(catalog.DateFilters))
	for _, f := range catalog.DateFilters {
		out = append(out, DateOption{Value: string(f), Label: f.Label(), Selected: f == cur})
	}
	return out
}

// localPath returns p when it is a same-site absolute path, fallback otherwise.
func localPath(p, fallback string) string {
	if strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.ContainsAny(p, "\\\r\n") {
		return p
	}
	return fallback
}
