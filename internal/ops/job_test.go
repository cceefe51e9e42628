package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/board"
	"github.com/hpungsan/jobdork/internal/errors"
)

func openAt(t *testing.T, dir string) *app.Session {
	t.Helper()
	sess, err := app.Open(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("app.Open() error = %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess
}

func columnLen(out *BoardOutput, s board.Status) int {
	for _, c := range out.Columns {
		if c.Status == s {
			return len(c.Applications)
		}
	}
	return -1
}

func TestJobWorkflow_SavedToInterview(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()

	added, err := AddJob(ctx, sess, AddJobInput{Role: "Backend Dev", Company: "Acme"})
	require.NoError(t, err)
	require.Equal(t, board.StatusSaved, added.Job.Status)

	b, err := Board(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, 1, columnLen(b, board.StatusSaved))

	moved, err := MoveJob(ctx, sess, MoveJobInput{ID: added.Job.ID, Status: "interview"})
	require.NoError(t, err)
	require.True(t, moved.Moved)

	b, err = Board(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, 0, columnLen(b, board.StatusSaved))
	require.Equal(t, 1, columnLen(b, board.StatusInterview))

	job, err := GetJob(ctx, sess, added.Job.ID)
	require.NoError(t, err)
	require.Equal(t, board.StatusInterview, job.Status)
}

func TestAddJob_Validation(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()

	_, err := AddJob(ctx, sess, AddJobInput{Role: "Dev"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
	_, err = AddJob(ctx, sess, AddJobInput{Role: "Dev", Company: "Acme", Status: "ghosted"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestListJobs_FilterAndPaginate(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := AddJob(ctx, sess, AddJobInput{Role: "Dev", Company: "Acme", Status: "applied"})
		require.NoError(t, err)
	}
	_, err := AddJob(ctx, sess, AddJobInput{Role: "Ops", Company: "Globex"})
	require.NoError(t, err)

	all, err := ListJobs(ctx, sess, ListJobsInput{})
	require.NoError(t, err)
	require.Equal(t, 4, all.Pagination.Total)

	applied, err := ListJobs(ctx, sess, ListJobsInput{Status: "Applied", Limit: 2})
	require.NoError(t, err)
	require.Len(t, applied.Items, 2)
	require.True(t, applied.Pagination.HasMore)
	require.Equal(t, 3, applied.Pagination.Total)

	empty, err := ListJobs(ctx, sess, ListJobsInput{Status: "offer"})
	require.NoError(t, err)
	require.NotNil(t, empty.Items)
	require.Empty(t, empty.Items)

	_, err = ListJobs(ctx, sess, ListJobsInput{Status: "nope"})
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestEditNotesAndDelete(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()

	added, err := AddJob(ctx, sess, AddJobInput{Role: "Dev", Company: "Acme"})
	require.NoError(t, err)

	cancelled, err := EditNotes(ctx, sess, EditNotesInput{ID: added.Job.ID})
	require.NoError(t, err)
	require.False(t, cancelled.Updated)

	notes := "**recruiter** replied"
	edited, err := EditNotes(ctx, sess, EditNotesInput{ID: added.Job.ID, Notes: &notes})
	require.NoError(t, err)
	require.True(t, edited.Updated)
	require.Equal(t, notes, *edited.Job.Notes)

	del, err := DeleteJob(ctx, sess, added.Job.ID)
	require.NoError(t, err)
	require.True(t, del.Deleted)

	_, err = GetJob(ctx, sess, added.Job.ID)
	require.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = MoveJob(ctx, sess, MoveJobInput{ID: added.Job.ID, Status: "offer"})
	require.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestStats(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()

	for _, role := range []string{"Go", "go", "Rust"} {
		_, err := PerformSearch(ctx, sess, PerformSearchInput{Role: role, Sites: []string{"lever"}})
		require.NoError(t, err)
	}
	_, err := AddJob(ctx, sess, AddJobInput{Role: "Dev", Company: "Acme", Status: "offer"})
	require.NoError(t, err)

	out, err := Stats(ctx, sess)
	require.NoError(t, err)
	require.True(t, out.Search.Ready)
	require.Equal(t, "go", out.Search.TopRole())
	require.Equal(t, 1, out.Search.UniqueSites)
	require.Equal(t, 1, out.Jobs[board.StatusOffer])
	require.Equal(t, 1, out.Total)
}

func TestTheme(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()

	got, err := GetTheme(ctx, sess)
	require.NoError(t, err)
	require.EqualValues(t, "dark", got.Theme)

	toggled, err := ToggleTheme(ctx, sess)
	require.NoError(t, err)
	require.EqualValues(t, "light", toggled.Theme)

	_, err = SetTheme(ctx, sess, "neon")
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}
