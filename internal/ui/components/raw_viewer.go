package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/rawjson"
	"github.com/lazydash/lazydash/internal/ui/theme"
)

// CloseRawViewerMsg is sent when the viewer is dismissed.
type CloseRawViewerMsg struct{}

// RawViewer shows the last backend response as highlighted JSON.
type RawViewer struct {
	Title    string
	Width    int
	Height   int
	Theme    theme.Theme
	lines    []string
	offset   int
	typeName string
	parseErr error
}

// NewRawViewer builds a viewer for a response payload.
func NewRawViewer(title string, payload []byte, th theme.Theme) *RawViewer {
	rv := &RawViewer{
		Title:  title,
		Width:  80,
		Height: 24,
		Theme:  th,
	}
	rv.SetPayload(payload)
	return rv
}

// SetPayload replaces the displayed document.
func (rv *RawViewer) SetPayload(payload []byte) {
	rv.offset = 0
	rv.parseErr = nil
	pretty, err := rawjson.Pretty(payload)
	if err != nil {
		rv.parseErr = err
		rv.lines = strings.Split(string(payload), "\n")
		rv.typeName = "unknown"
		return
	}
	rv.lines = strings.Split(pretty, "\n")
	rv.typeName = rawjson.TypeOf(payload)
}

// Update handles scrolling keys.
func (rv *RawViewer) Update(msg tea.KeyMsg) (*RawViewer, tea.Cmd) {
	pageSize := rv.bodyHeight()
	switch msg.String() {
	case "esc", "q", "ctrl+j":
		return rv, func() tea.Msg { return CloseRawViewerMsg{} }
	case "up", "k":
		rv.scroll(-1)
	case "down", "j":
		rv.scroll(1)
	case "pgup", "ctrl+u":
		rv.scroll(-pageSize)
	case "pgdown", "ctrl+d":
		rv.scroll(pageSize)
	case "g", "home":
		rv.offset = 0
	case "G", "end":
		rv.offset = rv.maxOffset()
	}
	return rv, nil
}

func (rv *RawViewer) scroll(delta int) {
	rv.offset += delta
	if rv.offset < 0 {
		rv.offset = 0
	}
	if rv.offset > rv.maxOffset() {
		rv.offset = rv.maxOffset()
	}
}

func (rv *RawViewer) maxOffset() int {
	m := len(rv.lines) - rv.bodyHeight()
	if m < 0 {
		m = 0
	}
	return m
}

func (rv *RawViewer) bodyHeight() int {
	h := rv.Height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the viewer box.
func (rv *RawViewer) View() string {
	titleStyle := lipgloss.NewStyle().Foreground(rv.Theme.Info).Bold(true)
	statusStyle := lipgloss.NewStyle().Foreground(rv.Theme.Comment)

	header := titleStyle.Render(rv.Title)
	if rv.parseErr != nil {
		header += "  " + lipgloss.NewStyle().Foreground(rv.Theme.Error).
			Render("(not valid JSON)")
	}

	end := rv.offset + rv.bodyHeight()
	if end > len(rv.lines) {
		end = len(rv.lines)
	}
	var body []string
	for _, line := range rv.lines[rv.offset:end] {
		body = append(body, rv.highlight(line))
	}

	status := statusStyle.Render(fmt.Sprintf("%s · line %d-%d of %d · esc to close",
		rv.typeName, rv.offset+1, end, len(rv.lines)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		header, strings.Join(body, "\n"), status)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(rv.Theme.BorderFocused).
		Padding(0, 1).
		Width(rv.Width - 2).
		Render(content)
}

// highlight colors one pretty-printed line. The indent discipline of
// MarshalIndent keeps the scan simple: at most one key and one value per
// line.
func (rv *RawViewer) highlight(line string) string {
	keyStyle := lipgloss.NewStyle().Foreground(rv.Theme.JSONKey)
	stringStyle := lipgloss.NewStyle().Foreground(rv.Theme.JSONString)
	numberStyle := lipgloss.NewStyle().Foreground(rv.Theme.JSONNumber)
	boolStyle := lipgloss.NewStyle().Foreground(rv.Theme.JSONBoolean)
	nullStyle := lipgloss.NewStyle().Foreground(rv.Theme.JSONNull)

	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]
	suffix := ""
	if strings.HasSuffix(trimmed, ",") {
		trimmed = strings.TrimSuffix(trimmed, ",")
		suffix = ","
	}

	var key, value string
	if strings.HasPrefix(trimmed, `"`) {
		if idx := strings.Index(trimmed, `": `); idx >= 0 {
			key = trimmed[:idx+2]
			value = trimmed[idx+3:]
		} else {
			value = trimmed
		}
	} else {
		value = trimmed
	}

	var out strings.Builder
	out.WriteString(indent)
	if key != "" {
		out.WriteString(keyStyle.Render(key))
		out.WriteString(" ")
	}
	switch {
	case value == "":
	case strings.HasPrefix(value, `"`):
		out.WriteString(stringStyle.Render(value))
	case value == "true" || value == "false":
		out.WriteString(boolStyle.Render(value))
	case value == "null":
		out.WriteString(nullStyle.Render(value))
	case value[0] == '-' || (value[0] >= '0' && value[0] <= '9'):
		out.WriteString(numberStyle.Render(value))
	default:
		out.WriteString(value)
	}
	out.WriteString(suffix)
	return out.String()
}
