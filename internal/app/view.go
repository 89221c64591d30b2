package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/layout"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/components"
	"github.com/lazydash/lazydash/internal/ui/help"
)

// View implements tea.Model
func (a *App) View() string {
	if a.state.ViewMode == models.LoginMode {
		return a.renderLogin()
	}
	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme)
	}

	if overlay := a.overlayView(); overlay != "" {
		return lipgloss.Place(a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center, overlay)
	}

	return a.renderBrowse()
}

func (a *App) overlayView() string {
	switch {
	case a.errToast != nil:
		return a.errToast.View()
	case a.rawViewer != nil:
		return a.rawViewer.View()
	case a.confirmingDelete:
		return a.renderDeleteConfirm()
	case a.pickerOpen:
		return a.renderPicker()
	case a.filterBuilder != nil:
		return a.filterBuilder.View()
	case a.formView != nil:
		return a.formView.View()
	case a.inflight > 0 && a.doc == nil:
		return a.loading.View()
	}
	return ""
}

func (a *App) renderBrowse() string {
	topBar := a.renderTopBar()
	bottomBar := a.renderBottomBar()

	contentHeight := a.state.Height - 2
	if contentHeight < 5 {
		contentHeight = 5
	}

	showNav := a.branding == nil || a.branding.IsSidebarShown
	var panels string
	if showNav {
		navWidth := (a.state.Width * a.state.NavWidth) / 100
		if navWidth < 20 {
			navWidth = 20
		}
		contentWidth := a.state.Width - navWidth - 4
		if contentWidth < 20 {
			contentWidth = 20
			navWidth = a.state.Width - contentWidth - 4
		}

		a.navView.Width = navWidth
		a.navView.Height = contentHeight
		navPanel := a.panel("Menu", a.navView.View(), navWidth, contentHeight,
			a.state.Focus == models.FocusNav)
		contentPanel := a.panel(a.contentTitle(), a.renderContent(contentWidth),
			contentWidth, contentHeight, a.state.Focus != models.FocusNav)
		panels = lipgloss.JoinHorizontal(lipgloss.Top, navPanel, contentPanel)
	} else {
		contentWidth := a.state.Width - 2
		panels = a.panel(a.contentTitle(), a.renderContent(contentWidth),
			contentWidth, contentHeight, true)
	}

	view := lipgloss.JoinVertical(lipgloss.Left, topBar, panels, bottomBar)

	// An open dropdown floats above the page.
	if a.state.Focus == models.FocusFilter && len(a.dropdownKeys) > 0 {
		if dd, ok := a.dropdowns[a.dropdownKeys[a.dropdownIdx]]; ok && dd.Open {
			return lipgloss.Place(a.state.Width, a.state.Height,
				lipgloss.Center, lipgloss.Center, dd.View())
		}
	}
	return view
}

func (a *App) panel(title, content string, width, height int, focused bool) string {
	p := components.Panel{
		Title:   title,
		Content: content,
		Width:   width,
		Height:  height,
		Focused: focused,
		Theme:   a.theme,
	}
	return p.View()
}

func (a *App) contentTitle() string {
	if a.doc != nil {
		return a.doc.ViewContent.Title(a.state.Scope.ObjectCode)
	}
	return models.ToLabel(a.state.Scope.ObjectCode)
}

func (a *App) renderContent(width int) string {
	if a.state.ViewMode == models.DetailMode {
		a.detailView.Width = width
		return a.detailView.View()
	}
	if a.tree == nil {
		if a.inflight > 0 {
			return a.loading.View()
		}
		return lipgloss.NewStyle().Foreground(a.theme.Comment).Italic(true).
			Render("Select a page from the menu")
	}

	ctx := layout.Context{
		Scope:      a.state.Scope,
		View:       &a.doc.ViewContent,
		Theme:      a.theme,
		Filters:    a.filters,
		Slot:       func(n *layout.Node) string { return a.renderSlot(n, width) },
		Data:       func(target string) *models.PagedResult { return a.results[target] },
		Selected:   func(target string) string { return a.selected[target] },
		Navigation: a.navItems,
		Logger:     a.logger,
	}
	element := layout.New(ctx).Interpret(a.tree)
	if element == nil {
		return ""
	}
	return element.Render(width)
}

// renderSlot fills the data-bound layout nodes with the page-owned stateful
// components.
func (a *App) renderSlot(n *layout.Node, width int) string {
	switch n.Kind {
	case layout.KindTable:
		a.tableView.Width = width
		a.tableView.Height = a.state.Height - 10
		return lipgloss.JoinVertical(lipgloss.Left,
			a.tableView.View(), a.pagination.View())
	case layout.KindForm:
		if a.formView != nil {
			return a.formView.View()
		}
		return ""
	case layout.KindDetail:
		a.detailView.Width = width
		return a.detailView.View()
	}
	return ""
}

func (a *App) renderTopBar() string {
	title := "lazydash"
	if a.branding != nil && a.branding.HeaderTitle != "" {
		title = a.branding.HeaderTitle
	}

	left := title
	if a.cfg.UI.ShowBreadcrumbs {
		left = fmt.Sprintf("%s  %s / %s / %s", title,
			a.state.Scope.TenantCode, a.state.Scope.ProductCode,
			a.contentTitle())
	}

	right := "not signed in"
	if a.user != nil {
		right = a.user.DisplayName()
	}

	return lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 1).
		Render(statusLine(left, right, a.state.Width-2))
}

func (a *App) renderBottomBar() string {
	left := "[tab] focus  [f] filter  [n] new  [?] help  [q] quit"
	right := a.statusText
	if a.inflight > 0 {
		right = "loading..."
	}

	return lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 1).
		Render(statusLine(left, right, a.state.Width-2))
}

func statusLine(left, right string, width int) string {
	if width < 0 {
		width = 0
	}
	if len(left)+len(right) > width {
		if width > len(right) {
			return left[:width-len(right)] + right
		}
		if len(left) > width {
			return left[:width]
		}
		return left
	}
	spacing := width - len(left) - len(right)
	return left + strings.Repeat(" ", spacing) + right
}

func (a *App) renderLogin() string {
	title := "lazydash"
	if a.branding != nil && a.branding.HeaderTitle != "" {
		title = a.branding.HeaderTitle
	}

	titleStyle := lipgloss.NewStyle().Foreground(a.theme.Info).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(a.theme.Comment)

	lines := []string{
		titleStyle.Render(title),
		"",
		labelStyle.Render("Email"),
		a.loginEmail.View(),
		"",
		labelStyle.Render("Password"),
		a.loginPassword.View(),
		"",
	}
	if a.loginBusy {
		lines = append(lines, a.loading.View())
	} else if a.loginNotice != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(a.theme.Error).Render(a.loginNotice))
	} else {
		lines = append(lines, labelStyle.Render("Enter to sign in"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.BorderFocused).
		Padding(1, 3).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(a.state.Width, a.state.Height,
		lipgloss.Center, lipgloss.Center, box)
}

func (a *App) renderDeleteConfirm() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Foreground(a.theme.Warning).Bold(true).Render("Delete record?"),
		"",
		"This cannot be undone.",
		"",
		lipgloss.NewStyle().Foreground(a.theme.Comment).Render("[y] delete  [n] cancel"),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.Warning).
		Padding(0, 2).
		Render(body)
}

func (a *App) renderPicker() string {
	titleStyle := lipgloss.NewStyle().Foreground(a.theme.Info).Bold(true)
	var lines []string
	lines = append(lines, titleStyle.Render("Saved filters: "+a.target()), "")

	if a.pickerNaming {
		lines = append(lines, "Name for the current filter:", a.pickerInput.View())
	} else if len(a.pickerItems) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(a.theme.Comment).Italic(true).
			Render("No saved filters for this view"))
	} else {
		for i, item := range a.pickerItems {
			line := fmt.Sprintf("%s  (used %d times)", item.Name, item.UsageCount)
			style := lipgloss.NewStyle().Foreground(a.theme.Foreground)
			if i == a.pickerIndex {
				style = style.Background(a.theme.Selection).Bold(true)
				line = "> " + line
			} else {
				line = "  " + line
			}
			lines = append(lines, style.Render(line))
		}
	}

	lines = append(lines, "",
		lipgloss.NewStyle().Foreground(a.theme.Comment).
			Render("[enter] apply  [s] save current  [d] delete  [esc] close"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.theme.BorderFocused).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}
