// Package ui provides terminal styling and output-format rendering shared
// by every CLI command.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent = lipgloss.Color("12")
	ColorPass   = lipgloss.Color("10")
	ColorWarn   = lipgloss.Color("11")
	ColorFail   = lipgloss.Color("9")
	ColorMuted  = lipgloss.Color("8")
)

func RenderAccent(s string) string { return lipgloss.NewStyle().Foreground(ColorAccent).Render(s) }
func RenderPass(s string) string   { return lipgloss.NewStyle().Foreground(ColorPass).Render(s) }
func RenderWarn(s string) string   { return lipgloss.NewStyle().Foreground(ColorWarn).Render(s) }
func RenderFail(s string) string   { return lipgloss.NewStyle().Foreground(ColorFail).Render(s) }
func RenderMuted(s string) string  { return lipgloss.NewStyle().Foreground(ColorMuted).Render(s) }

// StatusColor maps an item/list status name to its semantic render function.
func StatusColor(status string) func(string) string {
	switch status {
	case "completed", "active":
		return RenderPass
	case "in_progress":
		return RenderWarn
	case "failed", "archived":
		return RenderFail
	default:
		return RenderMuted
	}
}
