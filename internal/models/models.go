package models

import "strings"

// ViewMode identifies the current screen of the application.
type ViewMode int

const (
	BrowseMode ViewMode = iota
	DetailMode
	FormMode
	LoginMode
	HelpMode
)

// FocusArea identifies which region of the browse screen receives key input.
type FocusArea int

const (
	FocusNav FocusArea = iota
	FocusContent
	FocusFilter
)

// AppState holds top-level UI state shared across screens.
type AppState struct {
	Width  int
	Height int

	Scope    Scope
	ViewMode ViewMode
	Focus    FocusArea

	NavWidth int // percentage of the window given to the navigation panel
}

// NewAppState creates an AppState with defaults.
func NewAppState(scope Scope) AppState {
	return AppState{
		Width:    80,
		Height:   24,
		Scope:    scope,
		ViewMode: BrowseMode,
		Focus:    FocusContent,
		NavWidth: 25,
	}
}

// ToLabel converts a snake_case code into a human label, the same way the
// backend-less fallbacks do: underscores to spaces, words title-cased.
func ToLabel(code string) string {
	if code == "" {
		return ""
	}
	words := strings.Split(strings.ReplaceAll(code, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
