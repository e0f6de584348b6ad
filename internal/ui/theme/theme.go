// Package theme provides the colours and lipgloss styles of the starter
// terminal UI. Colours adapt to light and dark terminal backgrounds.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tungetti/starter/internal/logging"
)

// ThemeName identifies a theme variant.
type ThemeName string

const (
	// ThemeDefault is the coloured theme.
	ThemeDefault ThemeName = "default"

	// ThemePlain renders without colours, for --no-color and NO_COLOR.
	ThemePlain ThemeName = "plain"
)

// Semantic colors using AdaptiveColor for automatic light/dark theme support.
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#38BDF8"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#F9FAFB"}
	ColorTextMuted = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#404040"}
)

// Severity colours, from least to most severe.
var levelColors = map[logging.Severity]lipgloss.AdaptiveColor{
	logging.LevelNotSet:   {Light: "#6B7280", Dark: "#9CA3AF"},
	logging.LevelTrace:    {Light: "#7C3AED", Dark: "#A78BFA"},
	logging.LevelDebug:    {Light: "#0EA5E9", Dark: "#38BDF8"},
	logging.LevelInfo:     {Light: "#22C55E", Dark: "#4ADE80"},
	logging.LevelWarn:     {Light: "#EAB308", Dark: "#FACC15"},
	logging.LevelError:    {Light: "#DC2626", Dark: "#F87171"},
	logging.LevelCritical: {Light: "#9F1239", Dark: "#FB7185"},
}

// Styles contains pre-built lipgloss styles for the TUI.
type Styles struct {
	Title            lipgloss.Style
	Header           lipgloss.Style
	Help             lipgloss.Style
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	Description      lipgloss.Style
	Current          lipgloss.Style
}

// Theme is the visual theme of the TUI.
type Theme struct {
	Name   ThemeName
	Styles Styles
	plain  bool
}

// DefaultTheme returns the coloured theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: ThemeDefault,
		Styles: Styles{
			Title: lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary),
			Header: lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(ColorBorder),
			Help: lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Padding(1, 1, 0),
			ListItem: lipgloss.NewStyle().
				Foreground(ColorText).
				PaddingLeft(2),
			ListItemSelected: lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(ColorPrimary).
				PaddingLeft(1),
			Description: lipgloss.NewStyle().
				Foreground(ColorTextMuted),
			Current: lipgloss.NewStyle().
				Italic(true).
				Foreground(ColorTextMuted),
		},
	}
}

// PlainTheme returns a theme without colours. The selected item is marked
// with a leading "> " instead.
func PlainTheme() *Theme {
	return &Theme{
		Name:  ThemePlain,
		plain: true,
		Styles: Styles{
			Title:            lipgloss.NewStyle().Bold(true),
			Header:           lipgloss.NewStyle().Padding(0, 1),
			Help:             lipgloss.NewStyle().Padding(1, 1, 0),
			ListItem:         lipgloss.NewStyle().PaddingLeft(2),
			ListItemSelected: lipgloss.NewStyle().SetString(">"),
			Description:      lipgloss.NewStyle(),
			Current:          lipgloss.NewStyle(),
		},
	}
}

// GetTheme returns a theme by name. Returns DefaultTheme if name is not recognized.
func GetTheme(name ThemeName) *Theme {
	if name == ThemePlain {
		return PlainTheme()
	}
	return DefaultTheme()
}

// ForColor returns PlainTheme when colour is disabled and DefaultTheme otherwise.
func ForColor(noColor bool) *Theme {
	if noColor {
		return PlainTheme()
	}
	return DefaultTheme()
}

// IsPlain reports whether the theme renders without colours.
func (t *Theme) IsPlain() bool {
	return t.plain
}

// LevelStyle returns the style of a severity name.
func (t *Theme) LevelStyle(level logging.Severity) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true).Width(len("CRITICAL"))
	if t.plain {
		return style
	}
	if c, ok := levelColors[level]; ok {
		style = style.Foreground(c)
	}
	return style
}

// LevelColor returns the colour of a severity and whether one is defined.
func LevelColor(level logging.Severity) (lipgloss.AdaptiveColor, bool) {
	c, ok := levelColors[level]
	return c, ok
}
