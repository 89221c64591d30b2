package components

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// PageRequestMsg asks for a different page of the target's data.
type PageRequestMsg struct {
	Target string
	Page   int
}

// Pagination renders and drives the page control under a table.
type Pagination struct {
	Target    string
	Page      int
	TotalPage int
	Theme     theme.Theme
}

// NewPagination creates a pagination control.
func NewPagination(th theme.Theme, target string) *Pagination {
	return &Pagination{Theme: th, Target: target, Page: 1, TotalPage: 1}
}

// SetResult syncs the control with a fetched page.
func (p *Pagination) SetResult(result *models.PagedResult) {
	if result == nil {
		p.Page, p.TotalPage = 1, 1
		return
	}
	p.Page = result.Page
	p.TotalPage = result.TotalPage
}

// Next requests the following page, nil at the end.
func (p *Pagination) Next() tea.Cmd {
	if p.Page >= p.TotalPage {
		return nil
	}
	return p.request(p.Page + 1)
}

// Prev requests the preceding page, nil at the start.
func (p *Pagination) Prev() tea.Cmd {
	if p.Page <= 1 {
		return nil
	}
	return p.request(p.Page - 1)
}

// First jumps to page one.
func (p *Pagination) First() tea.Cmd {
	if p.Page == 1 {
		return nil
	}
	return p.request(1)
}

// Last jumps to the final page.
func (p *Pagination) Last() tea.Cmd {
	if p.Page == p.TotalPage {
		return nil
	}
	return p.request(p.TotalPage)
}

func (p *Pagination) request(page int) tea.Cmd {
	target := p.Target
	return func() tea.Msg {
		return PageRequestMsg{Target: target, Page: page}
	}
}

// View renders the control
func (p *Pagination) View() string {
	active := lipgloss.NewStyle().Foreground(p.Theme.Info).Bold(true)
	dim := lipgloss.NewStyle().Foreground(p.Theme.Comment)

	prev := "‹ prev"
	if p.Page <= 1 {
		prev = dim.Render(prev)
	} else {
		prev = active.Render(prev)
	}
	next := "next ›"
	if p.Page >= p.TotalPage {
		next = dim.Render(next)
	} else {
		next = active.Render(next)
	}

	return fmt.Sprintf("%s  page %d of %d  %s", prev, p.Page, max(p.TotalPage, 1), next)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
