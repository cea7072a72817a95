package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/setlist2spotify/internal/models"
	"github.com/desertthunder/setlist2spotify/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSetlistsFetched MsgKind = iota
	MsgProgressUpdate
	MsgBuildComplete
)

type setlistsFetched struct {
	setlists []models.SetlistRecord
	err      error
}

type buildComplete struct {
	result *tasks.BuildResult
	err    error
}

// setlistsFetchedMsg is the constructor for [MsgSetlistsFetched]
func setlistsFetchedMsg(setlists []models.SetlistRecord, err error) Msg {
	return Msg{kind: MsgSetlistsFetched, data: setlistsFetched{setlists, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// buildCompleteMsg is the constructor for [MsgBuildComplete]
func buildCompleteMsg(result *tasks.BuildResult, err error) Msg {
	return Msg{kind: MsgBuildComplete, data: buildComplete{result, err}}
}
