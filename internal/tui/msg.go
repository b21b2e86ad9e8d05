package tui

import "github.com/runoshun/taskboard/internal/usecase"

// Msg is the sealed interface for all search view messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgResults is sent when a search completes.
type MsgResults struct {
	Out   *usecase.SearchTasksOutput
	Query string
}

func (MsgResults) sealed() {}

// MsgError is sent when a search fails.
type MsgError struct {
	Err   error
	Query string
}

func (MsgError) sealed() {}
