package tui

import "github.com/charmbracelet/lipgloss"

const listWidth = 28

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	faintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	listStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
