// Package view holds the bubbletea models of the statement drafting
// client: building master data, period selection and the draft editor.
package view

import (
	tea "github.com/charmbracelet/bubbletea"
)

type CommonModel struct {
	Width  int
	Height int
}

// BackMsg returns control to the main menu.
type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}
