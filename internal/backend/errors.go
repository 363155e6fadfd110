package backend

import (
	"errors"
	"strings"
)

// ErrArchiveGone is returned by backends when the requested archive has been
// removed. Backends that only report messages are recognised by substring.
var ErrArchiveGone = errors.New("找不到档案")

// ErrNotFound is returned when a file or annotation does not exist.
var ErrNotFound = errors.New("record not found")

var goneMarkers = []string{ErrArchiveGone.Error(), "archive not found"}

// IsArchiveGone reports whether err means the archive no longer exists, in
// which case the caller should navigate back to search instead of showing a
// dead detail page.
func IsArchiveGone(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrArchiveGone) {
		return true
	}
	msg := err.Error()
	for _, marker := range goneMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Message converts a backend failure into the text shown inline to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "操作失败"
	}
	return msg
}

// ErrInvalidRequest marks failures caused by the request itself, such as an
// out-of-range rectangle or a file of the wrong type.
var ErrInvalidRequest = errors.New("invalid request")

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// NewError returns an error that prints msg and matches kind under errors.Is.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}
