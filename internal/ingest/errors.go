package ingest

import "errors"

// Sentinel errors returned (wrapped) by Load. Every one of them is fatal for a run.
var (
	ErrArchiveUnreadable = errors.New("archive unreadable")
	ErrMemberMissing     = errors.New("archive member missing")
	ErrMissingIDColumn   = errors.New("missing id column")
	ErrInvalidCSV        = errors.New("invalid csv")
)
