package service

import "errors"

var (
	ErrRebuildFailure = errors.New("rebuild failed")
	ErrNotActive      = errors.New("storm display is not active")
	ErrNoSuchTrack    = errors.New("no such track")
)
