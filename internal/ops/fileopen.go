package ops

import (
	"os"

	"github.com/hpungsan/jobdork/internal/errors"
)

// openNoFollow opens path with flag, refusing a symlinked final component.
// Parent directories are covered by ValidatePath, which only admits files
// sitting directly in an allowed directory.
func openNoFollow(path string, flag int, perm os.FileMode) (*os.File, error) {
	f, err := os.OpenFile(path, flag|noFollowFlag, perm)
	switch {
	case err == nil:
		return f, nil
	case isSymlinkLoop(err):
		return nil, errors.NewInvalidRequest("path must not be a symlink")
	case flag&(os.O_WRONLY|os.O_RDWR) == 0 && os.IsNotExist(err):
		return nil, errors.NewFileNotFound(path)
	}
	return nil, err
}
