package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNoData           = errors.New("no review data found")
	ErrPersistence      = errors.New("artifact persistence failed")
	ErrArtifactNotFound = errors.New("artifact not found")
	ErrHistoryDisabled  = errors.New("run history disabled")
	ErrInvalidAppID     = errors.New("app_id must be numeric")
)
