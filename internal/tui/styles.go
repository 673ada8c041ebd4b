// SPDX-License-Identifier: MIT
package tui

import (
	"scope/internal/scope"

	"github.com/charmbracelet/lipgloss"
)

var (
	green  = lipgloss.Color(scope.Hex(scope.GreenBright))
	medium = lipgloss.Color(scope.Hex(scope.GreenMedium))
	dark   = lipgloss.Color(scope.Hex(scope.GreenDark))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(green).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(medium)

	highlightStyle = lipgloss.NewStyle().
			Foreground(green).
			Bold(true)

	paramNameStyle  = lipgloss.NewStyle().Foreground(medium)
	paramValueStyle = lipgloss.NewStyle().Foreground(green).Bold(true)

	channelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dark)

	channelTitleStyle = lipgloss.NewStyle().
				Foreground(green).
				Bold(true)

	statusStyles = map[statusKind]lipgloss.Style{
		statusOK:    lipgloss.NewStyle().Foreground(green).Bold(true),
		statusWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color(scope.Hex(scope.Yellow))).Bold(true),
		statusError: lipgloss.NewStyle().Foreground(lipgloss.Color(scope.Hex(scope.Red))).Bold(true),
	}
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)
