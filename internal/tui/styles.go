package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme of the side panel.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeMono = Theme{
		Name:    "mono",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#b4b4b4"),
		Text:    lipgloss.Color("#8c8c8c"),
		Muted:   lipgloss.Color("#3c3c3c"),
		Success: lipgloss.Color("#dcdcdc"),
		Warning: lipgloss.Color("#a0a0a0"),
		Error:   lipgloss.Color("#dc2828"),
	}

	ThemeMagma = Theme{
		Name:    "magma",
		Primary: lipgloss.Color("#fcfdbf"),
		Accent:  lipgloss.Color("#fc8961"),
		Text:    lipgloss.Color("#e0c8d0"),
		Muted:   lipgloss.Color("#51127c"),
		Success: lipgloss.Color("#fcfdbf"),
		Warning: lipgloss.Color("#fc8961"),
		Error:   lipgloss.Color("#b73779"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#00a8cc"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00cc00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	Themes = []Theme{ThemeMono, ThemeMagma, ThemeOcean, ThemeRetro}
)

// GetTheme returns the named theme, or mono when there is none.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMono
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

var canvasStyle = lipgloss.NewStyle().Padding(1, 2)

type styles struct {
	stats, header, label, value, graph, help, notice, rec lipgloss.Style
}

func (t Theme) styles() styles {
	return styles{
		stats:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(statsWidth),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Text).Width(10),
		value:  lipgloss.NewStyle().Foreground(t.Primary),
		graph:  lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		notice: lipgloss.NewStyle().Foreground(t.Accent).Italic(true),
		rec:    lipgloss.NewStyle().Foreground(t.Error).Bold(true).Blink(true),
	}
}

// meter renders level in [0,1] as a bar colored by how full it is.
func (t Theme) meter(level float64, width int) string {
	filled := int(level * float64(width))
	filled = max(0, min(filled, width))
	color := t.Success
	switch {
	case level > 0.8:
		color = t.Error
	case level > 0.5:
		color = t.Warning
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	return bar + lipgloss.NewStyle().Foreground(t.Muted).Render(strings.Repeat("░", width-filled))
}
