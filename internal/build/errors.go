package build

// errors.go maps run failures to short messages with a support code.
//
// Codes:
//
//	ARC001 - Archive unreadable       (ingest.ErrArchiveUnreadable)
//	ARC002 - Archive member missing   (ingest.ErrMemberMissing)
//	CSV001 - Missing id column        (ingest.ErrMissingIDColumn)
//	CSV002 - Invalid CSV              (ingest.ErrInvalidCSV)
//	OUT001 - Output write failed      (ErrWrite)
//	OUT002 - Page render failed       (ErrRender)
//	SNP001 - Snapshot failed          (ErrSnapshot)
//	CFG001 - Configuration invalid    ("config validation", "config load")
//	RUN001 - Run cancelled            (context.Canceled, context.DeadlineExceeded)
//	ERR000 - Anything else
//
// Sentinels are checked with errors.Is before any message pattern, and the
// first matching rule wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/salonsite/internal/ingest"
)

// Sentinel errors for the output side of a run.
var (
	ErrRender   = errors.New("render failed")
	ErrWrite    = errors.New("write failed")
	ErrSnapshot = errors.New("snapshot failed")
)

// UserMessage provides operator-facing error information with guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
}

// errorRule matches an error either by sentinel or by message pattern.
type errorRule struct {
	is      error
	pattern string
	msg     UserMessage
}

var errorRules = []errorRule{
	{
		is: ingest.ErrArchiveUnreadable,
		msg: UserMessage{
			Message: "The input archive could not be read",
			Action:  "Check INPUT_ARCHIVE points to a valid zip file",
			Code:    "ARC001",
		},
	},
	{
		is: ingest.ErrMemberMissing,
		msg: UserMessage{
			Message: "A required CSV file is missing from the archive",
			Action:  "The archive must contain beauty_salon.csv, city.csv, state.csv and category.csv",
			Code:    "ARC002",
		},
	},
	{
		is: ingest.ErrMissingIDColumn,
		msg: UserMessage{
			Message: "A CSV file has no id column",
			Action:  "Add an id column to the header row",
			Code:    "CSV001",
		},
	},
	{
		is: ingest.ErrInvalidCSV,
		msg: UserMessage{
			Message: "A CSV file could not be parsed",
			Action:  "Export the file again as comma-separated UTF-8",
			Code:    "CSV002",
		},
	},
	{
		is: ErrWrite,
		msg: UserMessage{
			Message: "Writing output failed",
			Action:  "Check permissions and free space of the output destination",
			Code:    "OUT001",
		},
	},
	{
		is: ErrRender,
		msg: UserMessage{
			Message: "A page could not be rendered",
			Action:  "Check the logs for the page key and the underlying error",
			Code:    "OUT002",
		},
	},
	{
		is: ErrSnapshot,
		msg: UserMessage{
			Message: "Saving the dataset snapshot failed",
			Action:  "Check SNAPSHOT_DRIVER and SNAPSHOT_DSN, or set SNAPSHOT_DRIVER=none",
			Code:    "SNP001",
		},
	},
	{
		is:  context.Canceled,
		msg: cancelledMessage,
	},
	{
		is:  context.DeadlineExceeded,
		msg: cancelledMessage,
	},
	{
		pattern: "config validation",
		msg:     configMessage,
	},
	{
		pattern: "config load",
		msg:     configMessage,
	},
}

var cancelledMessage = UserMessage{
	Message: "The run was cancelled",
	Action:  "Start the build again",
	Code:    "RUN001",
}

var configMessage = UserMessage{
	Message: "The configuration is invalid",
	Action:  "Fix the listed environment variables",
	Code:    "CFG001",
}

// defaultMessage is returned when no rule matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for the underlying error",
	Code:    "ERR000",
}

// MapError converts an error to an operator-facing message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, r := range errorRules {
		if r.is != nil && errors.Is(err, r.is) {
			return r.msg
		}
		if r.pattern != "" && strings.Contains(errStr, r.pattern) {
			return r.msg
		}
	}
	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// UserError pairs the technical error with its mapped message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
