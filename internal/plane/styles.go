package plane

import "github.com/charmbracelet/lipgloss"

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	circleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff"))

	rectangleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bb9af7"))

	enclosedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f7768e"))

	outsideStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0caf5"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))
)
