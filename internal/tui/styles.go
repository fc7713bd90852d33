package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// Accent color for FinAgent branding.
const accentGreen = "#00B386"

// FinAgent ASCII banner.
var bannerArt = []string{
	"  ███████╗██╗███╗   ██╗ █████╗  ██████╗ ███████╗███╗   ██╗████████╗",
	"  ██╔════╝██║████╗  ██║██╔══██╗██╔════╝ ██╔════╝████╗  ██║╚══██╔══╝",
	"  █████╗  ██║██╔██╗ ██║███████║██║  ███╗█████╗  ██╔██╗ ██║   ██║   ",
	"  ██╔══╝  ██║██║╚██╗██║██╔══██║██║   ██║██╔══╝  ██║╚██╗██║   ██║   ",
	"  ██║     ██║██║ ╚████║██║  ██║╚██████╔╝███████╗██║ ╚████║   ██║   ",
	"  ╚═╝     ╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝   ╚═╝   ",
}

// Styles contains all lipgloss styles for the dashboard.
type Styles struct {
	Banner    lipgloss.Style
	Header    lipgloss.Style
	System    lipgloss.Style
	Tips      lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Selected  lipgloss.Style
	Separator lipgloss.Style
	Bar       lipgloss.Style
	BarLabel  lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentGreen)),
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accentGreen)),
		System:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Tips:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Bar:       lipgloss.NewStyle().Foreground(lipgloss.Color(accentGreen)),
		BarLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	}
}

// RenderBanner returns the ASCII banner as a styled string.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for _, line := range bannerArt {
		_, _ = b.WriteString(s.Banner.Render(line))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// welcomeTips contains getting started tips displayed under the banner.
var welcomeTips = []string{
	"Tips for getting started:",
	"  • Ask about markets, companies, or economic indicators",
	"  • Answers with data include a chart below the text",
	"  • Tab switches to the history pane; type to filter past queries",
	"  • Use /help to see available commands",
}

// RenderWelcomeTips returns styled welcome tips.
func (s Styles) RenderWelcomeTips() string {
	var b strings.Builder
	for _, tip := range welcomeTips {
		_, _ = b.WriteString(s.Tips.Render(tip))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}
