package linux

import (
	"fmt"
	"syscall"
)

// Mount flags used by the child's two best-effort filesystem steps.
const (
	MS_PRIVATE = syscall.MS_PRIVATE
	MS_REC     = syscall.MS_REC
	MS_BIND    = syscall.MS_BIND
	MS_RDONLY  = syscall.MS_RDONLY
	MS_REMOUNT = syscall.MS_REMOUNT
)

// MakeRootPrivate marks the root mount propagation as private and
// recursive, so mount events inside the sandbox never leak to the
// host mount namespace (and vice versa). Unprivileged runs may lack
// CAP_SYS_ADMIN for this; callers must treat failure as best-effort.
func MakeRootPrivate() error {
	if err := syscall.Mount("", "/", "", MS_REC|MS_PRIVATE, ""); err != nil {
		return fmt.Errorf("mount private: %w", err)
	}
	return nil
}

// RemountRootReadOnly bind-remounts / read-only. Like MakeRootPrivate,
// this is best-effort: an unprivileged child that lacks permission
// still runs, just with weaker isolation.
func RemountRootReadOnly() error {
	if err := syscall.Mount("/", "/", "", MS_BIND|MS_REC, ""); err != nil {
		return fmt.Errorf("bind mount root: %w", err)
	}
	if err := syscall.Mount("/", "/", "", MS_REMOUNT|MS_BIND|MS_RDONLY|MS_REC, ""); err != nil {
		return fmt.Errorf("remount readonly: %w", err)
	}
	return nil
}
