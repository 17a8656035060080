// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette for terminal output. Colors are ANSI
// 256-color codes. An empty color renders without styling.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color

	// Progress bar fill and track.
	ProgressFill  lipgloss.Color
	ProgressTrack lipgloss.Color

	Enrolled   lipgloss.Color
	Unenrolled lipgloss.Color

	// Grade colors, from failing to excellent.
	GradeColors [3]lipgloss.Color
	Ungraded    lipgloss.Color

	Unread lipgloss.Color
}

// GradeColor returns the color for a grade out of 100: below 60 is
// failing, below 85 is passing, and the rest is excellent.
func (theme Theme) GradeColor(grade int) lipgloss.Color {
	switch {
	case grade < 60:
		return theme.GradeColors[0]
	case grade < 85:
		return theme.GradeColors[1]
	default:
		return theme.GradeColors[2]
	}
}

// DefaultTheme is the dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),

	ProgressFill:  lipgloss.Color("114"), // green
	ProgressTrack: lipgloss.Color("238"),

	Enrolled:   lipgloss.Color("75"), // blue
	Unenrolled: lipgloss.Color("245"),

	GradeColors: [3]lipgloss.Color{
		lipgloss.Color("196"), // red
		lipgloss.Color("220"), // amber
		lipgloss.Color("114"), // green
	},
	Ungraded: lipgloss.Color("141"), // light purple

	Unread: lipgloss.Color("208"), // orange
}

// PlainTheme has no colors, for pipes and redirected output.
var PlainTheme = Theme{}

func style(color lipgloss.Color) lipgloss.Style {
	if color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(color)
}
