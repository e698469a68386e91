package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/zackbart/codebrowser/internal/palette"
)

var (
	barStyle       = lipgloss.NewStyle().Background(palette.Dim).PaddingLeft(1)
	titleStyle     = lipgloss.NewStyle().Foreground(palette.Breadcrumb).Bold(true)
	rootStyle      = lipgloss.NewStyle().Foreground(palette.Dir).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(palette.Muted)
	okStyle        = lipgloss.NewStyle().Foreground(palette.OK)
	errorStyle     = lipgloss.NewStyle().Foreground(palette.Error).Bold(true)
	separatorStyle = lipgloss.NewStyle().Foreground(palette.Border)
	scrollStyle    = lipgloss.NewStyle().Foreground(palette.Scrollbar)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(palette.Accent).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(palette.Accent).
			Padding(1, 4)
	errorBannerStyle = bannerStyle.
				Foreground(palette.Error).
				BorderForeground(palette.Error)
)
