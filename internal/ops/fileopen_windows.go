//go:build windows

package ops

// Windows has no O_NOFOLLOW; ValidatePath has already refused symlinks.
const noFollowFlag = 0

func isSymlinkLoop(error) bool { return false }
