package release

import "errors"

var (
	ErrDirtyTree    = errors.New("working tree not clean")
	ErrVersion      = errors.New("malformed release version")
	ErrReleaseNotes = errors.New("release notes not ready")
)
