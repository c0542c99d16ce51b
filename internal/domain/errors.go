package domain

import "errors"

var (
	// ErrNotFound is returned by stores when the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidSettings wraps every settings validation failure
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrSnapshotExists is returned by history stores that refuse a second snapshot for a date
	ErrSnapshotExists = errors.New("snapshot already recorded for this date")
)
