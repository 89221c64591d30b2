package models

import "sort"

// DataType is the backend-declared type of a field.
type DataType string

const (
	TypeText        DataType = "Text"
	TypeNumber      DataType = "Number"
	TypeBool        DataType = "Bool"
	TypeDate        DataType = "Date"
	TypeDateTime    DataType = "DateTime"
	TypeTimestamptz DataType = "Timestamptz"
)

// FieldDescriptor describes one column/attribute of an object as returned by
// the layout endpoint. Immutable once fetched.
type FieldDescriptor struct {
	FieldCode          string   `json:"field_code"`
	FieldName          string   `json:"field_name"`
	DataType           DataType `json:"data_type"`
	FieldOrder         int      `json:"field_order"`
	IsDisplayedInTable bool     `json:"is_displayed_in_table"`
	ForeignTableName   string   `json:"foreign_table_name,omitempty"`
	ForeignFieldName   string   `json:"foreign_field_name,omitempty"`
	RenderConfig       string   `json:"render_config,omitempty"`
}

// HasForeignRef reports whether the field references another object's records.
func (f FieldDescriptor) HasForeignRef() bool {
	return f.ForeignTableName != "" && f.ForeignFieldName != ""
}

// metadataColumns is the fixed set of audit/system fields suppressed from
// default views.
var metadataColumns = map[string]struct{}{
	"created_at": {},
	"created_by": {},
	"deleted_at": {},
	"deleted_by": {},
	"updated_at": {},
	"updated_by": {},
	"serial":     {},
	"id":         {},
}

// IsMetadataColumn reports whether code belongs to the metadata column list.
func IsMetadataColumn(code string) bool {
	_, ok := metadataColumns[code]
	return ok
}

// VisibleFields returns fields ordered by field_order ascending, with metadata
// columns removed unless showMetadata is set.
func VisibleFields(fields []FieldDescriptor, showMetadata bool) []FieldDescriptor {
	visible := make([]FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		if !showMetadata && IsMetadataColumn(f.FieldCode) {
			continue
		}
		visible = append(visible, f)
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].FieldOrder < visible[j].FieldOrder
	})
	return visible
}

// FieldCodes returns the field_code of each descriptor, in order.
func FieldCodes(fields []FieldDescriptor) []string {
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		codes = append(codes, f.FieldCode)
	}
	return codes
}
