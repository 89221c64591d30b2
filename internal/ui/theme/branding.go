package theme

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/lazydash/lazydash/internal/models"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FromBranding derives a theme from a tenant or product color palette,
// falling back to the base theme wherever the palette is short or invalid.
// Palette order: primary, secondary, accent.
func FromBranding(base Theme, b models.Branding) Theme {
	t := base
	t.Name = base.Name + "-branded"

	if c, ok := paletteColor(b.ColorPalette, 0); ok {
		t.BorderFocused = c
		t.TableHeader = c
		t.NavActive = c
	}
	if c, ok := paletteColor(b.ColorPalette, 1); ok {
		t.Info = c
	}
	if c, ok := paletteColor(b.ColorPalette, 2); ok {
		t.NavIcon = c
	}
	if b.TextColor != "" && hexColor.MatchString(b.TextColor) {
		t.Foreground = lipgloss.Color(b.TextColor)
	}
	return t
}

func paletteColor(palette []string, i int) (lipgloss.Color, bool) {
	if i >= len(palette) || !hexColor.MatchString(palette[i]) {
		return "", false
	}
	return lipgloss.Color(palette[i]), true
}
