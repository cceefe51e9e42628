package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/metrics"
	"github.com/hpungsan/jobdork/internal/settings"
)

type testServer struct {
	sess    *app.Session
	metrics *metrics.Metrics
	handler http.Handler
}

func setupTest(t *testing.T) *testServer {
	t.Helper()
	sess, err := app.Open(context.Background(), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("app.Open: %v", err)
	}
	t.Cleanup(func() { sess.Close() })

	m := metrics.New()
	srv, err := NewServer(sess, Options{Version: "test", Metrics: m})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return &testServer{sess: sess, metrics: m, handler: srv.Handler}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) get(target string) *httptest.ResponseRecorder {
	return ts.do(httptest.NewRequest("GET", target, nil))
}

func (ts *testServer) postForm(target string, form url.Values, jsonAccept bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if jsonAccept {
		req.Header.Set("Accept", "application/json")
	}
	return ts.do(req)
}

func (ts *testServer) postJSON(target string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return ts.do(req)
}

func (ts *testServer) addJob(t *testing.T, role, company string) board.Application {
	t.Helper()
	job, err := ts.sess.Board.AddJob(context.Background(), board.NewApplication{Role: role, Company: company})
	if err != nil {
		t.Fatalf("AddJob: %v", err)
	}
	return *job
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error.Code
}

// --- search page ---

func TestRoot_RedirectsToSearch(t *testing.T) {
	ts := setupTest(t)
	rec := ts.get("/")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/search" {
		t.Errorf("Location = %q, want /search", loc)
	}
}

func TestSearchPage_RendersCatalog(t *testing.T) {
	ts := setupTest(t)
	rec := ts.get("/search")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"ATS Globais", "Greenhouse", "Big Tech &amp; Context", "Last week", `data-theme="dark"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestSearchPage_PreviewDoesNotRecord(t *testing.T) {
	ts := setupTest(t)
	rec := ts.get("/search?role=Go+Developer&sites=greenhouse&sites=lever")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "site:boards.greenhouse.io OR site:jobs.lever.co") {
		t.Error("expected built query in preview")
	}
	if len(ts.sess.Search.History()) != 0 {
		t.Error("preview must not record history")
	}
}

func TestSearchPage_PreviewShowsValidationNotice(t *testing.T) {
	ts := setupTest(t)
	rec := ts.get("/search?role=Go&sites=nope")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error-message") {
		t.Error("expected validation notice for unknown site")
	}
}

func TestSearchPage_ToggleGroup(t *testing.T) {
	ts := setupTest(t)

	rec := ts.get("/search?role=Go&toggle_group=Brasil")
	body := rec.Body.String()
	for _, id := range []string{"gupy", "catho", "revelo"} {
		if !strings.Contains(body, `value="`+id+`" checked`) {
			t.Errorf("site %s should be checked after toggling its group on", id)
		}
	}

	q := url.Values{"role": {"Go"}, "toggle_group": {"Brasil"}}
	for _, id := range []string{"gupy", "99jobs", "vagas", "remotar", "catho", "infojobs", "trampos", "revelo", "lever"} {
		q.Add("sites", id)
	}
	body = ts.get("/search?" + q.Encode()).Body.String()
	if strings.Contains(body, `value="gupy" checked`) {
		t.Error("fully selected group should toggle off")
	}
	if !strings.Contains(body, `value="lever" checked`) {
		t.Error("sites outside the group must stay selected")
	}
}

func TestSearchPage_HTMXRendersContentOnly(t *testing.T) {
	ts := setupTest(t)
	req := httptest.NewRequest("GET", "/search", nil)
	req.Header.Set("HX-Request", "true")
	rec := ts.do(req)
	if strings.Contains(rec.Body.String(), "<!DOCTYPE html>") {
		t.Error("htmx request should not include the layout")
	}
}

func TestPerformSearch_RedirectsAndRecords(t *testing.T) {
	ts := setupTest(t)

	form := url.Values{"role": {"Backend"}, "sites": {"lever"}, "date_filter": {"w"}}
	rec := ts.postForm("/search", form, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://www.google.com/search?q=") || !strings.HasSuffix(loc, "&tbs=qdr:w") {
		t.Errorf("Location = %q", loc)
	}

	history := ts.sess.Search.History()
	if len(history) != 1 || history[0].Role != "Backend" {
		t.Fatalf("history = %+v, want one Backend entry", history)
	}
	if got := testutil.ToFloat64(ts.metrics.Searches); got != 1 {
		t.Errorf("searches_total = %v, want 1", got)
	}

	page := ts.get("/search").Body.String()
	if !strings.Contains(page, `value="Backend"`) {
		t.Error("current search should prefill the form")
	}
}

func TestPerformSearch_MissingRole(t *testing.T) {
	ts := setupTest(t)
	rec := ts.postForm("/search", url.Values{"role": {"  "}}, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want INVALID_REQUEST", code)
	}
}

func TestHistory_ApplyAndClear(t *testing.T) {
	ts := setupTest(t)
	ts.postForm("/search", url.Values{"role": {"First"}}, true)
	ts.postForm("/search", url.Values{"role": {"Second"}}, true)

	oldest := ts.sess.Search.History()[1]
	rec := ts.postForm("/history/"+oldest.ID+"/apply", nil, true)
	var applied struct {
		Applied bool `json:"applied"`
	}
	decodeBody(t, rec, &applied)
	if !applied.Applied {
		t.Fatal("expected applied = true")
	}
	if cur := ts.sess.Search.Current(); cur == nil || cur.Role != "First" {
		t.Fatalf("current = %+v, want First", cur)
	}

	rec = ts.postForm("/history/missing/apply", nil, true)
	decodeBody(t, rec, &applied)
	if applied.Applied {
		t.Error("unknown history id should not apply")
	}

	rec = ts.postForm("/history/clear", nil, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("clear status = %d, want 303", rec.Code)
	}
	if len(ts.sess.Search.History()) != 0 {
		t.Error("history should be empty after clear")
	}
}

func TestPresets_SaveApplyDelete(t *testing.T) {
	ts := setupTest(t)

	form := url.Values{"name": {"Remote Go"}, "role": {"Go"}, "sites": {"remoteok"}}
	rec := ts.postForm("/presets", form, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d; body: %s", rec.Code, rec.Body.String())
	}
	presets := ts.sess.Search.Presets()
	if len(presets) != 1 || presets[0].Name != "Remote Go" {
		t.Fatalf("presets = %+v", presets)
	}

	if !strings.Contains(ts.get("/search").Body.String(), "Remote Go") {
		t.Error("preset should be listed on the search page")
	}

	rec = ts.postForm("/presets/"+presets[0].ID+"/apply", nil, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("apply status = %d, want 303", rec.Code)
	}

	rec = ts.postForm("/presets/"+presets[0].ID+"/delete", nil, true)
	var del struct {
		Deleted bool `json:"deleted"`
	}
	decodeBody(t, rec, &del)
	if !del.Deleted || len(ts.sess.Search.Presets()) != 0 {
		t.Error("preset should be deleted")
	}
}

func TestPresets_NameRequired(t *testing.T) {
	ts := setupTest(t)
	rec := ts.postForm("/presets", url.Values{"role": {"Go"}}, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- blocklist ---

func TestBlocklist_AddDuplicateRemove(t *testing.T) {
	ts := setupTest(t)

	rec := ts.postForm("/blocklist", url.Values{"company": {" Acme "}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d", rec.Code)
	}
	rec = ts.postForm("/blocklist", url.Values{"company": {"Acme"}}, true)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want 409", rec.Code)
	}
	if code := errorCode(t, rec); code != "DUPLICATE" {
		t.Errorf("code = %q, want DUPLICATE", code)
	}

	page := ts.get("/search?role=Dev").Body.String()
	if !strings.Contains(page, "-&#34;Acme&#34;") {
		t.Error("blocked company should appear negated in the query")
	}

	rec = ts.postForm("/blocklist/remove", url.Values{"company": {"Acme"}}, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("remove status = %d, want 303", rec.Code)
	}
	if got := ts.sess.Blocklist.Companies(); len(got) != 0 {
		t.Errorf("blocklist = %v, want empty", got)
	}
}

func TestBlocklist_HTMXErrorFragment(t *testing.T) {
	ts := setupTest(t)
	req := httptest.NewRequest("POST", "/blocklist", strings.NewReader("company="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := ts.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), `<div class="error-message">`) {
		t.Errorf("body = %q, want error fragment", rec.Body.String())
	}
}

func TestBlocklist_Export(t *testing.T) {
	ts := setupTest(t)

	rec := ts.get("/blocklist/export")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty export status = %d, want 422", rec.Code)
	}

	for _, c := range []string{"Acme", "Initech"} {
		ts.postForm("/blocklist", url.Values{"company": {c}}, true)
	}
	rec = ts.get("/blocklist/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=jobtracker_blocklist.csv" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != "Acme\nInitech" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestBlocklist_Import(t *testing.T) {
	ts := setupTest(t)
	ts.postForm("/blocklist", url.Values{"company": {"Acme"}}, true)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "list.csv")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = io.WriteString(fw, "Acme\r\nGlobex\n\nInitech\n")
	mw.Close()

	req := httptest.NewRequest("POST", "/blocklist/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	rec := ts.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Read  int `json:"read"`
		Added int `json:"added"`
		Total int `json:"total"`
	}
	decodeBody(t, rec, &out)
	if out.Read != 3 || out.Added != 2 || out.Total != 3 {
		t.Errorf("import = %+v, want read 3 added 2 total 3", out)
	}
}

func TestBlocklist_ImportMissingFile(t *testing.T) {
	ts := setupTest(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.Close()

	req := httptest.NewRequest("POST", "/blocklist/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	if rec := ts.do(req); rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

// --- theme ---

func TestToggleTheme(t *testing.T) {
	ts := setupTest(t)

	rec := ts.postForm("/theme/toggle", url.Values{"next": {"/board"}}, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/board" {
		t.Errorf("Location = %q, want /board", loc)
	}
	if ts.sess.Theme.Get() != settings.ThemeLight {
		t.Errorf("theme = %s, want light", ts.sess.Theme.Get())
	}
	if !strings.Contains(ts.get("/board").Body.String(), `data-theme="light"`) {
		t.Error("layout should carry the light theme")
	}

	rec = ts.postForm("/theme/toggle", url.Values{"next": {"//evil.example"}}, false)
	if loc := rec.Header().Get("Location"); loc != "/search" {
		t.Errorf("Location = %q, want fallback /search", loc)
	}
}

func TestLocalPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/board", "/board"},
		{"", "/search"},
		{"https://example.com", "/search"},
		{"//example.com", "/search"},
		{"/a\r\nSet-Cookie: x", "/search"},
	}
	for _, tt := range tests {
		if got := localPath(tt.in, "/search"); got != tt.want {
			t.Errorf("localPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// --- board ---

func TestBoard_AddJobAndRender(t *testing.T) {
	ts := setupTest(t)

	form := url.Values{
		"role":    {"Platform Engineer"},
		"company": {"Globex"},
		"status":  {"applied"},
		"notes":   {"**referral** from Ana"},
	}
	rec := ts.postForm("/board/jobs", form, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}

	rec = ts.get("/board")
	if rec.Code != http.StatusOK {
		t.Fatalf("board status = %d; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Platform Engineer", "Globex", "<strong>referral</strong>", `data-target="column:interview"`} {
		if !strings.Contains(body, want) {
			t.Errorf("board missing %q", want)
		}
	}
	if got := testutil.ToFloat64(ts.metrics.JobsByStatus.WithLabelValues("applied")); got != 1 {
		t.Errorf("board_jobs{status=applied} = %v, want 1", got)
	}
}

func TestBoard_AddJobValidation(t *testing.T) {
	ts := setupTest(t)
	rec := ts.postForm("/board/jobs", url.Values{"role": {"Dev"}}, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBoard_JSONColumns(t *testing.T) {
	ts := setupTest(t)
	ts.addJob(t, "Dev", "Acme")

	req := httptest.NewRequest("GET", "/board", nil)
	req.Header.Set("Accept", "application/json")
	rec := ts.do(req)

	var out struct {
		Columns []struct {
			Status       string            `json:"status"`
			Applications []json.RawMessage `json:"applications"`
		} `json:"columns"`
		Total int `json:"total"`
	}
	decodeBody(t, rec, &out)
	if len(out.Columns) != 5 || out.Total != 1 {
		t.Fatalf("board = %+v", out)
	}
	if out.Columns[0].Status != "saved" || len(out.Columns[0].Applications) != 1 {
		t.Errorf("saved column = %+v", out.Columns[0])
	}
}

func TestBoard_EditNotes(t *testing.T) {
	ts := setupTest(t)
	job := ts.addJob(t, "Dev", "Acme")

	rec := ts.postForm("/board/jobs/"+job.ID+"/notes", url.Values{"notes": {"call back"}}, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	got, _ := ts.sess.Board.Get(job.ID)
	if got.Notes == nil || *got.Notes != "call back" {
		t.Fatalf("notes = %v, want call back", got.Notes)
	}

	ts.postForm("/board/jobs/"+job.ID+"/notes", url.Values{"notes": {"ignored"}, "cancel": {"1"}}, false)
	got, _ = ts.sess.Board.Get(job.ID)
	if *got.Notes != "call back" {
		t.Errorf("cancelled edit changed notes to %q", *got.Notes)
	}

	rec = ts.postForm("/board/jobs/missing/notes", url.Values{"notes": {"x"}}, true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing job status = %d, want 404", rec.Code)
	}
}

func TestBoard_MoveAndDelete(t *testing.T) {
	ts := setupTest(t)
	job := ts.addJob(t, "Dev", "Acme")

	rec := ts.postForm("/board/jobs/"+job.ID+"/move", url.Values{"status": {"offer"}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d; body: %s", rec.Code, rec.Body.String())
	}
	got, _ := ts.sess.Board.Get(job.ID)
	if got.Status != board.StatusOffer {
		t.Errorf("status = %s, want offer", got.Status)
	}
	if n := testutil.ToFloat64(ts.metrics.Moves.WithLabelValues("offer")); n != 1 {
		t.Errorf("board_moves_total{to=offer} = %v, want 1", n)
	}

	rec = ts.postForm("/board/jobs/"+job.ID+"/move", url.Values{"status": {"hired"}}, true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad status code = %d, want 400", rec.Code)
	}

	rec = ts.postForm("/board/jobs/"+job.ID+"/delete", nil, false)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete status = %d, want 303", rec.Code)
	}
	if len(ts.sess.Board.Applications()) != 0 {
		t.Error("job should be deleted")
	}
}

// --- drag and drop ---

func TestDrag_StartOverDrop(t *testing.T) {
	ts := setupTest(t)
	job := ts.addJob(t, "Dev", "Acme")
	other := ts.addJob(t, "SRE", "Initech")
	if _, err := ts.sess.Kanban.Move(context.Background(), other.ID, board.StatusInterview); err != nil {
		t.Fatalf("Move: %v", err)
	}

	var state dragState
	decodeBody(t, ts.postJSON("/board/drag/start", dragRequest{ID: job.ID}), &state)
	if !state.Dragging || state.ActiveID != job.ID {
		t.Fatalf("start = %+v", state)
	}

	var preview dragPreview
	decodeBody(t, ts.postJSON("/board/drag/over", dragRequest{Target: "card:" + other.ID}), &preview)
	if !preview.OK || preview.Preview.Status != board.StatusInterview || !preview.Preview.WouldMove {
		t.Fatalf("over = %+v", preview)
	}
	if got, _ := ts.sess.Board.Get(job.ID); got.Status != board.StatusSaved {
		t.Fatal("hovering must not change the board")
	}

	rec := ts.postJSON("/board/drag/end", dragRequest{Target: "card:" + other.ID})
	var res struct {
		Moved bool   `json:"moved"`
		From  string `json:"from"`
		To    string `json:"to"`
	}
	decodeBody(t, rec, &res)
	if !res.Moved || res.From != "saved" || res.To != "interview" {
		t.Fatalf("drop = %+v", res)
	}
	if got, _ := ts.sess.Board.Get(job.ID); got.Status != board.StatusInterview {
		t.Errorf("status = %s, want interview", got.Status)
	}
	if ts.sess.Kanban.Dragging() {
		t.Error("controller should be idle after drop")
	}
}

func TestDrag_EndWithoutTargetCancels(t *testing.T) {
	ts := setupTest(t)
	job := ts.addJob(t, "Dev", "Acme")

	ts.postJSON("/board/drag/start", dragRequest{ID: job.ID})
	rec := ts.postJSON("/board/drag/end", dragRequest{})
	var res struct {
		Moved bool `json:"moved"`
	}
	decodeBody(t, rec, &res)
	if res.Moved || ts.sess.Kanban.Dragging() {
		t.Errorf("empty drop should cancel: moved=%v dragging=%v", res.Moved, ts.sess.Kanban.Dragging())
	}
}

func TestDrag_UnknownCardAndBadTarget(t *testing.T) {
	ts := setupTest(t)

	var state dragState
	decodeBody(t, ts.postJSON("/board/drag/start", dragRequest{ID: "nope"}), &state)
	if state.Dragging {
		t.Error("unknown id should not start a drag")
	}

	var preview dragPreview
	decodeBody(t, ts.postJSON("/board/drag/over", dragRequest{Target: "column:applied"}), &preview)
	if preview.OK {
		t.Error("idle controller should not preview")
	}

	rec := ts.postJSON("/board/drag/over", dragRequest{Target: "column:hired"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad target status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest("POST", "/board/drag/start", strings.NewReader("{"))
	req.Header.Set("Accept", "application/json")
	if rec := ts.do(req); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON status = %d, want 400", rec.Code)
	}
}

// --- middleware ---

func TestSecurityHeadersAndRequestID(t *testing.T) {
	ts := setupTest(t)
	rec := ts.get("/search")

	if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'self'") {
		t.Errorf("CSP = %q", csp)
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	req := httptest.NewRequest("GET", "/search", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	if got := ts.do(req).Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want propagated abc-123", got)
	}
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		headers  map[string]string
		wantCode int
	}{
		{"cross-site fetch", "POST", map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
		{"same-site fetch", "POST", map[string]string{"Sec-Fetch-Site": "same-site"}, http.StatusForbidden},
		{"foreign origin", "POST", map[string]string{"Origin": "http://evil.example"}, http.StatusForbidden},
		{"same-origin fetch", "POST", map[string]string{"Sec-Fetch-Site": "same-origin"}, http.StatusOK},
		{"matching origin", "POST", map[string]string{"Origin": "http://example.com"}, http.StatusOK},
		{"non-browser client", "POST", nil, http.StatusOK},
		{"cross-site read", "GET", map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTest(t)
			target := "/blocklist"
			var body io.Reader
			if tt.method == "POST" {
				body = strings.NewReader(url.Values{"company": {"Acme"}}.Encode())
			} else {
				target = "/search"
			}
			req := httptest.NewRequest(tt.method, target, body)
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Accept", "application/json")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := ts.do(req)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.method != "POST" {
				return
			}
			blocked := len(ts.sess.Blocklist.Companies()) == 1
			if blocked != (tt.wantCode == http.StatusOK) {
				t.Errorf("blocklist = %v after status %d", ts.sess.Blocklist.Companies(), rec.Code)
			}
			if tt.wantCode == http.StatusForbidden && rec.Header().Get("X-Frame-Options") != "DENY" {
				t.Error("rejected response should still carry security headers")
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTest(t)
	ts.postForm("/search", url.Values{"role": {"Go"}}, true)

	rec := ts.get("/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"jobdork_searches_total 1", "jobdork_http_requests_total"} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestStaticAssets(t *testing.T) {
	ts := setupTest(t)
	for _, p := range []string{"/static/style.css", "/static/board.js"} {
		if rec := ts.get(p); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", p, rec.Code)
		}
	}
}

func TestRenderMarkdown_EscapesRawHTML(t *testing.T) {
	got := string(renderMarkdown("hi <script>alert(1)</script>"))
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML should be omitted, got %q", got)
	}
}
