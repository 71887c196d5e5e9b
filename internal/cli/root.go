package cli

import (
	"github.com/julianstephens/confmate/internal/agenda"
	"github.com/julianstephens/confmate/internal/storage"
)

// Context is passed to every command's Run method.
type Context struct {
	Store  storage.Provider
	Agenda *agenda.Service
	UserID string
}
