package ops

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/jobdork/internal/blocklist"
	"github.com/hpungsan/jobdork/internal/config"
	"github.com/hpungsan/jobdork/internal/errors"
)

func TestBlocklist_AddRemove(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()

	out, err := AddBlocked(ctx, sess, " Acme ")
	require.NoError(t, err)
	require.Equal(t, "Acme", out.Company)

	_, err = AddBlocked(ctx, sess, "Acme")
	require.True(t, errors.Is(err, errors.ErrDuplicate))

	removed, err := RemoveBlocked(ctx, sess, "Acme")
	require.NoError(t, err)
	require.True(t, removed.Changed)
	require.Empty(t, removed.Companies)

	again, err := RemoveBlocked(ctx, sess, "Acme")
	require.NoError(t, err)
	require.False(t, again.Changed)
}

func TestExportBlocklist_DefaultPath(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()

	_, err := ExportBlocklist(ctx, sess, "")
	require.True(t, errors.Is(err, errors.ErrEmptyList))

	_, _ = AddBlocked(ctx, sess, "Acme")
	_, _ = AddBlocked(ctx, sess, "Globex")

	out, err := ExportBlocklist(ctx, sess, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(sess.BaseDir, "exports", blocklist.ExportFileName), out.Path)
	require.Equal(t, 2, out.Count)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	require.Equal(t, "Acme\nGlobex", string(data))

	// Overwrite in place.
	_, _ = AddBlocked(ctx, sess, "Initech")
	_, err = ExportBlocklist(ctx, sess, out.Path)
	require.NoError(t, err)
	data, _ = os.ReadFile(out.Path)
	require.Equal(t, "Acme\nGlobex\nInitech", string(data))

	entries, _ := os.ReadDir(filepath.Dir(out.Path))
	for _, e := range entries {
		require.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestExportBlocklist_RejectsOutsidePaths(t *testing.T) {
	sess := newSession(t)
	ctx := context.Background()
	_, _ = AddBlocked(ctx, sess, "Acme")

	_, err := ExportBlocklist(ctx, sess, filepath.Join(t.TempDir(), "out.csv"))
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))

	_, err = ExportBlocklist(ctx, sess, filepath.Join(sess.BaseDir, "exports", "out.json"))
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestImportBlocklist(t *testing.T) {
	allowed := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{allowed}
	sess := newSessionWithConfig(t, cfg)
	ctx := context.Background()

	_, _ = AddBlocked(ctx, sess, "Acme")

	path := filepath.Join(allowed, "companies.txt")
	require.NoError(t, os.WriteFile(path, []byte("Globex\n  Acme \n\nInitech\nGlobex\n"), 0600))

	out, err := ImportBlocklist(ctx, sess, path)
	require.NoError(t, err)
	require.Equal(t, 4, out.Read)
	require.Equal(t, 2, out.Added)
	require.Equal(t, 3, out.Total)
	require.Equal(t, []string{"Acme", "Globex", "Initech"}, sess.Blocklist.Companies())

	empty := filepath.Join(allowed, "empty.csv")
	require.NoError(t, os.WriteFile(empty, []byte("\n  \n"), 0600))
	_, err = ImportBlocklist(ctx, sess, empty)
	require.True(t, errors.Is(err, errors.ErrEmptyList))

	_, err = ImportBlocklist(ctx, sess, filepath.Join(allowed, "missing.csv"))
	require.True(t, errors.Is(err, errors.ErrFileNotFound))
}

func TestExportImport_RoundTripViaWriter(t *testing.T) {
	src := newSession(t)
	dst := newSession(t)
	ctx := context.Background()

	for _, c := range []string{"Acme", "Globex"} {
		_, _ = AddBlocked(ctx, src, c)
	}
	_, _ = AddBlocked(ctx, dst, "Globex")

	var buf bytes.Buffer
	n, err := ExportBlocklistTo(ctx, src, &buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	out, err := ImportBlocklistFrom(ctx, dst, &buf)
	require.NoError(t, err)
	require.Equal(t, 1, out.Added)
	require.Equal(t, []string{"Globex", "Acme"}, dst.Blocklist.Companies())
}
