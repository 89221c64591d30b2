package app

import (
	"time"

	"github.com/lazydash/lazydash/internal/layout"
	"github.com/lazydash/lazydash/internal/models"
	"github.com/lazydash/lazydash/internal/ui/components"
)

// SessionLoadedMsg carries the persisted session, if any.
type SessionLoadedMsg struct {
	Session *models.Session
	Err     error
}

// BrandingLoadedMsg carries tenant and product configuration.
type BrandingLoadedMsg struct {
	Tenant  *models.TenantConfig
	Product *models.ProductConfig
	Err     error
}

// NavigationLoadedMsg carries the menu document.
type NavigationLoadedMsg struct {
	Items []*models.NavigationItem
	Err   error
}

// RecordLoadedMsg carries a view's layout document and its parsed tree.
type RecordLoadedMsg struct {
	Scope models.Scope
	Doc   *models.LayoutDocument
	Tree  *layout.Node
	Err   error
}

// DataLoadedMsg carries one page of records. Gen identifies the request; a
// message whose Gen is stale for its target is dropped.
type DataLoadedMsg struct {
	Target string
	Gen    int
	Page   int
	Result *models.PagedResult
	Err    error
}

// DetailLoadedMsg carries a single record.
type DetailLoadedMsg struct {
	Serial string
	Row    models.Row
	Err    error
}

// ForeignOptionsMsg carries select options for a foreign-key form field.
type ForeignOptionsMsg struct {
	FieldCode string
	Options   []components.SelectOption
	Err       error
}

// SubmitDoneMsg reports the outcome of a create or update.
type SubmitDoneMsg struct {
	Created bool
	Err     error
}

// DeleteDoneMsg reports the outcome of a delete.
type DeleteDoneMsg struct {
	Serial string
	Err    error
}

// ExportDoneMsg reports where an export landed.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// LoginDoneMsg carries a fresh session after authentication.
type LoginDoneMsg struct {
	Session *models.Session
	Err     error
}

// UserValidatedMsg reports whether a restored token is still accepted.
type UserValidatedMsg struct {
	User models.User
	Err  error
}

type spinTickMsg time.Time
