package domain

import "errors"

var (
	ErrSnapshotFetch = errors.New("snapshot fetch failed")
	ErrNoQuotes      = errors.New("no usable quotes")
)
