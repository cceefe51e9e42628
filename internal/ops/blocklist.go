package ops

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/blocklist"
	"github.com/hpungsan/jobdork/internal/errors"
)

// BlocklistOutput is returned by blocklist mutations.
type BlocklistOutput struct {
	Company   string   `json:"company,omitempty"`
	Changed   bool     `json:"changed"`
	Companies []string `json:"companies"`
}

// AddBlocked adds a company to the blocklist.
func AddBlocked(ctx context.Context, sess *app.Session, company string) (*BlocklistOutput, error) {
	name, err := sess.Blocklist.Add(ctx, company)
	if err != nil {
		return nil, err
	}
	return &BlocklistOutput{Company: name, Changed: true, Companies: sess.Blocklist.Companies()}, nil
}

// RemoveBlocked removes a company from the blocklist.
func RemoveBlocked(ctx context.Context, sess *app.Session, company string) (*BlocklistOutput, error) {
	removed, err := sess.Blocklist.Remove(ctx, company)
	if err != nil {
		return nil, err
	}
	return &BlocklistOutput{Company: company, Changed: removed, Companies: sess.Blocklist.Companies()}, nil
}

// ListBlocked returns the blocklist.
func ListBlocked(ctx context.Context, sess *app.Session) (*BlocklistOutput, error) {
	return &BlocklistOutput{Companies: sess.Blocklist.Companies()}, nil
}

// ImportBlocklistOutput contains the result of an import.
type ImportBlocklistOutput struct {
	Read  int `json:"read"`
	Added int `json:"added"`
	Total int `json:"total"`
}

// ImportBlocklistFrom merges one company per line from r.
func ImportBlocklistFrom(ctx context.Context, sess *app.Session, r io.Reader) (*ImportBlocklistOutput, error) {
	companies, err := blocklist.ParseLines(r)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("failed to read blocklist: %v", err))
	}
	if len(companies) == 0 {
		return nil, errors.NewEmptyList("file is empty or invalid")
	}
	added, err := sess.Blocklist.Merge(ctx, companies)
	if err != nil {
		return nil, err
	}
	return &ImportBlocklistOutput{Read: len(companies), Added: added, Total: len(sess.Blocklist.Companies())}, nil
}

// ImportBlocklist merges a .csv/.txt file into the blocklist.
func ImportBlocklist(ctx context.Context, sess *app.Session, path string) (*ImportBlocklistOutput, error) {
	if err := ValidatePath(path, PathCheckRead, sess.BaseDir, sess.Config); err != nil {
		return nil, err
	}
	file, err := openNoFollow(path, os.O_RDONLY, 0)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	return ImportBlocklistFrom(ctx, sess, file)
}

// ExportBlocklistTo writes the blocklist to w.
func ExportBlocklistTo(ctx context.Context, sess *app.Session, w io.Writer) (int, error) {
	companies := sess.Blocklist.Companies()
	if len(companies) == 0 {
		return 0, errors.NewEmptyList("blocklist is empty")
	}
	if err := blocklist.WriteCSV(w, companies); err != nil {
		return 0, errors.NewInternal(err)
	}
	return len(companies), nil
}

// ExportBlocklistOutput contains the result of an export.
type ExportBlocklistOutput struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// ExportBlocklist writes the blocklist to path, defaulting to
// <base>/exports/jobtracker_blocklist.csv. Existing files are replaced atomically.
func ExportBlocklist(ctx context.Context, sess *app.Session, path string) (*ExportBlocklistOutput, error) {
	if path == "" {
		path = filepath.Join(ExportsDir(sess.BaseDir), blocklist.ExportFileName)
	}
	if err := ValidatePath(path, PathCheckWrite, sess.BaseDir, sess.Config); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	count, err := ExportBlocklistTo(ctx, sess, &buf)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return nil, err
	}
	return &ExportBlocklistOutput{Path: path, Count: count}, nil
}

// writeFileAtomic writes data to a temp file beside path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := openNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		if _, ok := errors.As(err); ok {
			return err
		}
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInvalidRequest("path must not be a symlink")
	}

	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; delete it or choose another path")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	success = true
	return nil
}
