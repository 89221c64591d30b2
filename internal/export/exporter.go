// Package export writes data out of the dashboard: server-produced export
// payloads decoded from their base64 envelope, and local CSV/JSON dumps of
// whatever page is on screen.
package export

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/lazydash/lazydash/internal/models"
)

// WriteServerExport decodes a server export payload and writes it under dir
// using the server-supplied file name. Returns the written path.
func WriteServerExport(result *models.ExportResult, dir string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(result.Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode export payload: %w", err)
	}

	name := result.FileName
	if name == "" {
		name = "export" + extensionFor(result.ContentType)
	}
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "text/csv":
		return ".csv"
	case "application/json":
		return ".json"
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// LocalExportPath builds a timestamped file name for a local page export and
// makes sure the directory exists.
func LocalExportPath(dir, objectCode, format string) string {
	ext := ".csv"
	if format == "json" {
		ext = ".json"
	}
	_ = os.MkdirAll(dir, 0755)
	name := fmt.Sprintf("%s_%s%s", objectCode, time.Now().Format("20060102_150405"), ext)
	return filepath.Join(dir, name)
}

// ExportPageToCSV writes the current page to a CSV file, one column per
// visible field in field order, display values preferred.
func ExportPageToCSV(fields []models.FieldDescriptor, rows []models.Row, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.FieldName
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(fields))
		for i, f := range fields {
			record[i] = row[f.FieldCode].Display()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// ExportPageToJSON writes the current page as pretty-printed JSON keyed by
// field code, raw values preferred.
func ExportPageToJSON(fields []models.FieldDescriptor, rows []models.Row, path string) error {
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]any, len(fields))
		for _, f := range fields {
			record[f.FieldCode] = row[f.FieldCode].Value
		}
		out = append(out, record)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	return nil
}
