// Package palette is the color set shared by every pane of the browser.
package palette

import "github.com/charmbracelet/lipgloss"

// Chrome colors, built around deep indigo and slate tones.
var (
	Accent     = lipgloss.Color("105") // soft violet: cursor row, banners
	AccentText = lipgloss.Color("231") // text on Accent
	Dir        = lipgloss.Color("75")  // directories, tree root
	OK         = lipgloss.Color("114") // successful render
	Error      = lipgloss.Color("203") // render failures
	Muted      = lipgloss.Color("240") // hints, dividers
	Dim        = lipgloss.Color("238") // bar backgrounds
	Breadcrumb = lipgloss.Color("147") // path text
	Border     = lipgloss.Color("237") // separator line
	Scrollbar  = lipgloss.Color("99")  // scroll indicator
)

// File category colors used by the tree.
var (
	Image  = lipgloss.Color("215")
	Doc    = lipgloss.Color("189")
	Data   = OK
	Code   = AccentText
	Config = lipgloss.Color("222")
	Other  = lipgloss.Color("252")
)
