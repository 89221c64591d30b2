package models

import "encoding/json"

// Scope is the four-level routing scope: customer org, product line, logical
// object, and the named presentation of that object.
type Scope struct {
	TenantCode      string
	ProductCode     string
	ObjectCode      string
	ViewContentCode string
}

// Target returns the pub/sub key other components subscribe to for this
// scope's object/view pair.
func (s Scope) Target() string {
	return s.ObjectCode + "__" + s.ViewContentCode
}

// WithObject returns a copy of the scope pointing at another object/view.
func (s Scope) WithObject(objectCode, viewContentCode string) Scope {
	s.ObjectCode = objectCode
	s.ViewContentCode = viewContentCode
	return s
}

// ObjectRef is the object metadata nested in a view content response.
type ObjectRef struct {
	Serial      string `json:"serial"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

// TenantRef is the tenant metadata nested in a view content response.
type TenantRef struct {
	Serial string `json:"serial"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// ProductRef is the product metadata nested in a view content response.
type ProductRef struct {
	Serial string `json:"serial"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// ViewContent identifies a named presentation of an object.
type ViewContent struct {
	Serial     string     `json:"serial"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Tenant     TenantRef  `json:"tenant"`
	Product    ProductRef `json:"product"`
	Object     ObjectRef  `json:"object"`
	LayoutType string     `json:"layout_type"`
	IsDefault  bool       `json:"is_default"`
}

// Title builds the page title shown for this view: object display name when
// the backend authored one, otherwise a label derived from the object code.
func (vc ViewContent) Title(objectCode string) string {
	if vc.Object.DisplayName != "" {
		return vc.Object.DisplayName
	}
	return ToLabel(objectCode)
}

// LayoutDocument is the response of the record (layout) endpoint. Layout is
// kept raw here; internal/layout parses it into a typed node tree.
type LayoutDocument struct {
	ViewContent ViewContent       `json:"view_content"`
	Layout      json.RawMessage   `json:"layout"`
	Fields      []FieldDescriptor `json:"fields"`
}

// Branding is the tenant/product presentation configuration.
type Branding struct {
	HeaderTitle     string   `json:"header_title"`
	Icon            string   `json:"icon"`
	ColorPalette    []string `json:"color_palette"`
	TextColor       string   `json:"text_color"`
	IsLoginRequired bool     `json:"is_login_required"`
	IsSidebarShown  bool     `json:"is_sidebar_shown"`
}

// TenantConfig is the response of the tenant configuration endpoint.
type TenantConfig struct {
	Serial   string   `json:"serial"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Branding Branding `json:"branding"`
}

// ProductConfig is the response of the product configuration endpoint.
type ProductConfig struct {
	Serial   string   `json:"serial"`
	Code     string   `json:"code"`
	Name     string   `json:"name"`
	Branding Branding `json:"branding"`
}
