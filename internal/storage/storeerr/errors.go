// Package storeerr holds the sentinel errors shared by the storage backends.
// It exists as a leaf so the sqlite and postgres packages can return the same
// values the storage package re-exports.
package storeerr

import "errors"

var (
	ErrNoActiveAgenda       = errors.New("no active agenda")
	ErrEmptyAgenda          = errors.New("agenda has no schedule items; refusing to persist an empty agenda")
	ErrSessionNotFound      = errors.New("session not found")
	ErrConversationNotFound = errors.New("conversation not found")
)
