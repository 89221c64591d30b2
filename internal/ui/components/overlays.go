package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/api"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// LoadingOverlay is a centered spinner box shown while a request is in
// flight.
type LoadingOverlay struct {
	Message string
	Frame   int
	Theme   theme.Theme
}

// Tick advances the spinner.
func (lo *LoadingOverlay) Tick() {
	lo.Frame = (lo.Frame + 1) % len(spinnerFrames)
}

// View renders the overlay box.
func (lo *LoadingOverlay) View() string {
	message := lo.Message
	if message == "" {
		message = "Loading..."
	}
	body := fmt.Sprintf("%s %s", spinnerFrames[lo.Frame%len(spinnerFrames)], message)
	return lipgloss.NewStyle().
		Foreground(lo.Theme.Info).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lo.Theme.BorderFocused).
		Padding(0, 2).
		Render(body)
}

// ErrorToast presents a request failure with a hint appropriate to its kind.
type ErrorToast struct {
	Err   error
	Theme theme.Theme
	Width int
}

// NewErrorToast wraps a failure for display.
func NewErrorToast(err error, th theme.Theme) *ErrorToast {
	return &ErrorToast{Err: err, Theme: th, Width: 60}
}

// Title names the failure class.
func (et *ErrorToast) Title() string {
	switch api.KindOf(et.Err) {
	case api.AuthFailure:
		return "Authentication required"
	case api.MissingLayout:
		return "View has no layout"
	case api.ExportFailure:
		return "Export failed"
	case api.SubmitFailure:
		return "Save failed"
	case api.DeleteFailure:
		return "Delete failed"
	default:
		return "Request failed"
	}
}

// Hint suggests a next step for recoverable failures.
func (et *ErrorToast) Hint() string {
	switch api.KindOf(et.Err) {
	case api.AuthFailure:
		return "Press l to log in again"
	case api.NetworkFailure:
		return "Check the backend URL and press r to retry"
	default:
		return "Press esc to dismiss"
	}
}

// View renders the toast box.
func (et *ErrorToast) View() string {
	if et.Err == nil {
		return ""
	}
	title := lipgloss.NewStyle().
		Foreground(et.Theme.Error).
		Bold(true).
		Render("✗ " + et.Title())
	message := lipgloss.NewStyle().
		Foreground(et.Theme.Foreground).
		Width(et.Width - 4).
		Render(wrapText(et.Err.Error(), et.Width-4))
	hint := lipgloss.NewStyle().
		Foreground(et.Theme.Comment).
		Italic(true).
		Render(et.Hint())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(et.Theme.Error).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, message, hint))
}

func wrapText(s string, width int) string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(s)
	var lines []string
	var current string
	for _, word := range words {
		if current == "" {
			current = word
			continue
		}
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n")
}
