package models

import (
	"encoding/json"
	"fmt"
)

// DataItem is a single cell as returned by the data endpoint: the raw value
// plus a backend-formatted presentation value.
type DataItem struct {
	Value        any `json:"value"`
	DisplayValue any `json:"display_value"`
}

// Display returns the presentation string for the cell, falling back to the
// raw value when the backend did not format one.
func (d DataItem) Display() string {
	if d.DisplayValue != nil {
		return stringify(d.DisplayValue)
	}
	if d.Value == nil {
		return ""
	}
	return stringify(d.Value)
}

// Raw returns the raw value as a string.
func (d DataItem) Raw() string {
	if d.Value == nil {
		return ""
	}
	return stringify(d.Value)
}

// Truthy interprets the raw value as a boolean, for Bool-typed fields.
func (d DataItem) Truthy() bool {
	switch v := d.Value.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "t" || v == "1"
	case float64:
		return v != 0
	default:
		return false
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; print integers without a fraction.
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// Row maps field_code to its cell for one record.
type Row map[string]DataItem

// Serial returns the record's primary identifier, if present.
func (r Row) Serial() string {
	return r["serial"].Raw()
}

// PagedResult is the envelope returned by the data endpoint.
type PagedResult struct {
	Items     []Row `json:"items"`
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	TotalData int   `json:"total_data"`
	TotalPage int   `json:"total_page"`
}

// ExportResult is the envelope returned by the export endpoint. Data is
// base64-encoded file content.
type ExportResult struct {
	Data        string `json:"data"`
	ContentType string `json:"content_type"`
	FileName    string `json:"file_name"`
}
