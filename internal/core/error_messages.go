package core

// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with codes for
// support reference. Users can quote the code when reporting a problem.
//
// # Split Errors (SPL001-SPL099)
//
//	SPL001 - Unsupported file type: only .xlsx and .csv can be split
//	         Patterns: "unsupported file type"
//	SPL002 - Invalid part count: part count must be a whole number of at least 1
//	         Patterns: "part count"
//	SPL003 - Result expired: split result not found
//	         Patterns: "split not found"
//	SPL004 - System busy: too many splits in progress
//	         Patterns: "too many splits"
//	SPL005 - Request cancelled
//	         Patterns: "context canceled"
//	SPL006 - Request timeout
//	         Patterns: "context deadline exceeded"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large       Patterns: "file too large", "request body too large"
//	FILE002 - Invalid CSV          Patterns: "invalid csv"
//	FILE003 - Invalid workbook     Patterns: "invalid xlsx"
//	FILE004 - No file              Patterns: "no file provided"
//	FILE005 - Empty file           Patterns: "empty file"
//
// # Archive and Encoding Errors (ARC001-ARC099)
//
//	ARC001 - Archive failed        Patterns: "build archive"
//	ARC002 - Part encoding failed  Patterns: "encoding failure"
//
// # History Errors (DB001-DB099)
//
//	DB001 - History unavailable    Patterns: "split_history", "connection refused"
//
// # Rate Limiting (RATE001)
//
//	RATE001 - Too many requests    Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no pattern matches. Support staff should check application
// logs for the original technical error, correlated by request ID.
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors come first: their messages also carry the generic
	// "invalid input" / "decode failure" prefixes.
	{"file too large", UserMessage{"File exceeds the maximum upload size", "Split the file locally or raise SPLIT_MAX_FILE_SIZE", "FILE001"}},
	{"request body too large", UserMessage{"File exceeds the maximum upload size", "Split the file locally or raise SPLIT_MAX_FILE_SIZE", "FILE001"}},
	{"invalid csv", UserMessage{"File is not a valid CSV", "Check quoting and save the file as UTF-8 comma-separated text", "FILE002"}},
	{"invalid xlsx", UserMessage{"File is not a valid Excel workbook", "Re-save the file as .xlsx and try again", "FILE003"}},
	{"no file provided", UserMessage{"No file was selected", "Choose a .xlsx or .csv file to split", "FILE004"}},
	{"empty file", UserMessage{"The uploaded file is empty", "Upload a file with at least a header row", "FILE005"}},

	{"unsupported file type", UserMessage{"Only .xlsx and .csv files can be split", "Upload a .xlsx or .csv file", "SPL001"}},
	{"part count", UserMessage{"Invalid number of parts", "Enter a whole number of parts, at least 1", "SPL002"}},
	{"split not found", UserMessage{"Split result not found", "The result may have expired. Split the file again", "SPL003"}},
	{"too many splits", UserMessage{"System is busy splitting other files", "Please wait a moment and try again", "SPL004"}},
	{"context canceled", UserMessage{"Request was cancelled", "Please try again", "SPL005"}},
	{"context deadline exceeded", UserMessage{"Request timed out", "Try a smaller file or try again later", "SPL006"}},

	{"build archive", UserMessage{"Could not build the zip archive", "Download the parts individually or split again", "ARC001"}},
	{"encoding failure", UserMessage{"Could not write one of the output parts", "Split the file again", "ARC002"}},

	{"split_history", UserMessage{"Split history is unavailable", "Please try again later", "DB001"}},
	{"connection refused", UserMessage{"Split history is unavailable", "Please try again later", "DB001"}},

	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or the ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError formats err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
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

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
