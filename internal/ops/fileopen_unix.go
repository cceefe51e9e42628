//go:build !windows

package ops

import (
	stderrors "errors"
	"syscall"
)

const noFollowFlag = syscall.O_NOFOLLOW

func isSymlinkLoop(err error) bool {
	return stderrors.Is(err, syscall.ELOOP)
}
