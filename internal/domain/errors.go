package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnconfigured = errors.New("remote store not configured")
	ErrConflict     = errors.New("conflict")
	ErrInvalidPatch = errors.New("invalid patch")
)
