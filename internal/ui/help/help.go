package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/ui/theme"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc", "Dismiss error / close dialog"},
		{"Tab", "Switch panel focus"},
		{"r, F5", "Refresh current view"},
		{"Ctrl+J", "Toggle raw response viewer"},
		{"L", "Log out"},
	}
}

// GetNavigationKeys returns navigation menu key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"←/h", "Collapse or jump to parent"},
		{"→/l, Space", "Expand"},
		{"Enter", "Open page"},
		{"g / G", "Jump to top / bottom"},
	}
}

// GetDataViewKeys returns record table key bindings
func GetDataViewKeys() []KeyBinding {
	return []KeyBinding{
		{"f", "Open filter builder"},
		{"F", "Saved filters"},
		{"Ctrl+R", "Clear filters"},
		{"Enter", "Open record detail"},
		{"n", "New record"},
		{"e", "Edit record"},
		{"d", "Delete record"},
		{"c", "Copy cell"},
		{"Shift+C", "Copy row as JSON"},
		{"x", "Export"},
		{"←/→, [/]", "Previous / next page"},
	}
}

// GetFormKeys returns record form key bindings
func GetFormKeys() []KeyBinding {
	return []KeyBinding{
		{"Tab / Shift+Tab", "Next / previous field"},
		{"Space", "Toggle boolean"},
		{"↑/↓", "Choose option"},
		{"Enter", "Save"},
		{"Esc", "Cancel"},
	}
}

// Render creates the help view
func Render(width, height int, th theme.Theme) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Info).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.BorderFocused).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(th.Warning).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(th.Foreground)

	sections := []struct {
		title string
		keys  []KeyBinding
	}{
		{"Global", GetGlobalKeys()},
		{"Navigation", GetNavigationKeys()},
		{"Records", GetDataViewKeys()},
		{"Forms", GetFormKeys()},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("lazydash - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, section := range sections {
		b.WriteString(sectionStyle.Render(section.title))
		b.WriteString("\n")
		for _, kb := range section.keys {
			b.WriteString("  ")
			b.WriteString(keyStyle.Render(kb.Key))
			b.WriteString(descStyle.Render(kb.Description))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.BorderFocused).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
