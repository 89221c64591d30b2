package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// NavView renders the navigation menu as a collapsible tree with keyboard
// navigation and viewport scrolling.
type NavView struct {
	Items        []*models.NavigationItem
	CursorIndex  int
	Width        int
	Height       int
	Theme        theme.Theme
	ScrollOffset int
	ActiveCode   string
}

// NavSelectedMsg is sent when a menu entry is chosen (Enter key)
type NavSelectedMsg struct {
	Item *models.NavigationItem
}

// NewNavView creates a navigation view
func NewNavView(items []*models.NavigationItem, th theme.Theme) *NavView {
	return &NavView{
		Items:  items,
		Width:  30,
		Height: 20,
		Theme:  th,
	}
}

// SetItems replaces the menu document.
func (nv *NavView) SetItems(items []*models.NavigationItem) {
	nv.Items = items
	nv.CursorIndex = 0
	nv.ScrollOffset = 0
}

// View renders the menu
func (nv *NavView) View() string {
	visible := models.FlattenNavigation(nv.Items)
	if len(visible) == 0 {
		return lipgloss.NewStyle().
			Foreground(nv.Theme.Comment).
			Italic(true).
			Width(nv.Width - 2).
			Align(lipgloss.Center).
			Render("No navigation")
	}

	if nv.CursorIndex < 0 {
		nv.CursorIndex = 0
	}
	if nv.CursorIndex >= len(visible) {
		nv.CursorIndex = len(visible) - 1
	}

	viewHeight := nv.Height - 2
	if viewHeight < 1 {
		viewHeight = 1
	}
	nv.adjustScrollOffset(len(visible), viewHeight)

	start := nv.ScrollOffset
	end := start + viewHeight
	if end > len(visible) {
		end = len(visible)
	}

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, nv.renderItem(visible[i], i == nv.CursorIndex))
	}
	for len(lines) < viewHeight {
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")
	if start > 0 || end < len(visible) {
		content = nv.addScrollIndicators(content, start, end, len(visible))
	}
	return content
}

// Update handles keyboard input
func (nv *NavView) Update(msg tea.KeyMsg) (*NavView, tea.Cmd) {
	visible := models.FlattenNavigation(nv.Items)
	if len(visible) == 0 {
		return nv, nil
	}

	var cmd tea.Cmd

	switch msg.String() {
	case "up", "k":
		if nv.CursorIndex > 0 {
			nv.CursorIndex--
		}

	case "down", "j":
		if nv.CursorIndex < len(visible)-1 {
			nv.CursorIndex++
		}

	case "g":
		nv.CursorIndex = 0
		nv.ScrollOffset = 0

	case "G":
		nv.CursorIndex = len(visible) - 1

	case "right", "l", " ":
		current := visible[nv.CursorIndex]
		current.Toggle()

	case "left", "h":
		current := visible[nv.CursorIndex]
		if current.Expanded {
			current.Toggle()
		} else if current.Parent != nil {
			if idx := indexOfItem(visible, current.Parent); idx >= 0 {
				nv.CursorIndex = idx
			}
		}

	case "enter":
		current := visible[nv.CursorIndex]
		if len(current.Children) > 0 {
			current.Toggle()
		} else {
			cmd = func() tea.Msg {
				return NavSelectedMsg{Item: current}
			}
		}
	}

	return nv, cmd
}

// renderItem renders a single menu entry
func (nv *NavView) renderItem(item *models.NavigationItem, selected bool) string {
	indent := strings.Repeat("  ", item.Depth())

	icon := "•"
	if len(item.Children) > 0 {
		icon = "▸"
		if item.Expanded {
			icon = "▾"
		}
	} else if item.NavigationConfig.Icon != "" {
		icon = item.NavigationConfig.Icon
	}

	content := fmt.Sprintf("%s%s %s", indent, icon, item.Title)

	maxWidth := nv.Width - 2
	if maxWidth < 4 {
		maxWidth = 4
	}
	if len(content) > maxWidth {
		content = content[:maxWidth-1] + "…"
	}

	var style lipgloss.Style
	switch {
	case selected:
		style = lipgloss.NewStyle().
			Background(nv.Theme.Selection).
			Foreground(nv.Theme.Foreground).
			Bold(true).
			Width(maxWidth)
	case item.Code == nv.ActiveCode:
		style = lipgloss.NewStyle().
			Foreground(nv.Theme.NavActive).
			Bold(true).
			Width(maxWidth)
	default:
		style = lipgloss.NewStyle().
			Foreground(nv.Theme.NavInactive).
			Width(maxWidth)
	}

	return style.Render(content)
}

func (nv *NavView) adjustScrollOffset(total, viewHeight int) {
	if nv.CursorIndex < nv.ScrollOffset {
		nv.ScrollOffset = nv.CursorIndex
	}
	if nv.CursorIndex >= nv.ScrollOffset+viewHeight {
		nv.ScrollOffset = nv.CursorIndex - viewHeight + 1
	}
	if nv.ScrollOffset < 0 {
		nv.ScrollOffset = 0
	}
	maxScroll := total - viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if nv.ScrollOffset > maxScroll {
		nv.ScrollOffset = maxScroll
	}
}

func (nv *NavView) addScrollIndicators(content string, start, end, total int) string {
	lines := strings.Split(content, "\n")
	if start > 0 && len(lines) > 0 {
		indicator := lipgloss.NewStyle().Foreground(nv.Theme.Info).Render("↑")
		lines[0] = indicator + " " + lines[0]
	}
	if end < total && len(lines) > 0 {
		indicator := lipgloss.NewStyle().Foreground(nv.Theme.Info).Render("↓")
		lines[len(lines)-1] = indicator + " " + lines[len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Current returns the entry under the cursor.
func (nv *NavView) Current() *models.NavigationItem {
	visible := models.FlattenNavigation(nv.Items)
	if nv.CursorIndex < 0 || nv.CursorIndex >= len(visible) {
		return nil
	}
	return visible[nv.CursorIndex]
}

// SetCursorToCode moves the cursor to the entry with the given code.
func (nv *NavView) SetCursorToCode(code string) bool {
	visible := models.FlattenNavigation(nv.Items)
	for i, item := range visible {
		if item.Code == code {
			nv.CursorIndex = i
			return true
		}
	}
	return false
}

func indexOfItem(items []*models.NavigationItem, target *models.NavigationItem) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return -1
}
