package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	BulletStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	TextStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	SpinnerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	MetaStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(2)
	ItemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().PaddingLeft(0).Foreground(lipgloss.Color("3"))
	HelpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SuccessStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func styleOutput(statuses []string) string {
	if len(statuses) == 0 {
		return ""
	}
	var styled []string
	for i, status := range statuses {
		bullet := "├"
		if i == len(statuses)-1 {
			bullet = "└"
		}
		styled = append(styled, BulletStyle.Render(bullet)+TextStyle.Render(status))
	}
	return strings.Join(styled, "\n") + "\n"
}
