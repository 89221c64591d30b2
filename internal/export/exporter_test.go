package export

import (
	"encoding/base64"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lazydash/lazydash/internal/models"
)

func testFields() []models.FieldDescriptor {
	return []models.FieldDescriptor{
		{FieldCode: "name", FieldName: "Name", DataType: models.TypeText},
		{FieldCode: "qty", FieldName: "Quantity", DataType: models.TypeNumber},
	}
}

func testRows() []models.Row {
	return []models.Row{
		{
			"name": models.DataItem{Value: "widget", DisplayValue: "Widget"},
			"qty":  models.DataItem{Value: float64(3), DisplayValue: "3"},
		},
		{
			"name": models.DataItem{Value: "gadget, deluxe", DisplayValue: "Gadget, Deluxe"},
			"qty":  models.DataItem{Value: float64(12), DisplayValue: "12"},
		},
	}
}

func TestWriteServerExport(t *testing.T) {
	dir := t.TempDir()
	result := &models.ExportResult{
		Data:        base64.StdEncoding.EncodeToString([]byte("a,b\n1,2\n")),
		ContentType: "text/csv",
		FileName:    "orders.csv",
	}

	path, err := WriteServerExport(result, dir)
	if err != nil {
		t.Fatalf("WriteServerExport failed: %v", err)
	}
	if filepath.Base(path) != "orders.csv" {
		t.Errorf("file name = %q, want orders.csv", filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}
	if string(content) != "a,b\n1,2\n" {
		t.Errorf("content = %q", content)
	}
}

func TestWriteServerExportBadPayload(t *testing.T) {
	result := &models.ExportResult{Data: "not valid base64 !!!"}
	if _, err := WriteServerExport(result, t.TempDir()); err == nil {
		t.Error("invalid base64 should fail")
	}
}

func TestWriteServerExportMissingFileName(t *testing.T) {
	result := &models.ExportResult{
		Data:        base64.StdEncoding.EncodeToString([]byte("{}")),
		ContentType: "application/json",
	}
	path, err := WriteServerExport(result, t.TempDir())
	if err != nil {
		t.Fatalf("WriteServerExport failed: %v", err)
	}
	if filepath.Ext(path) != ".json" {
		t.Errorf("extension = %q, want .json", filepath.Ext(path))
	}
}

func TestExportPageToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.csv")
	if err := ExportPageToCSV(testFields(), testRows(), path); err != nil {
		t.Fatalf("ExportPageToCSV failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if records[0][0] != "Name" || records[0][1] != "Quantity" {
		t.Errorf("header = %v", records[0])
	}
	// display values, with commas surviving quoting
	if records[2][0] != "Gadget, Deluxe" {
		t.Errorf("cell = %q", records[2][0])
	}
}

func TestExportPageToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.json")
	if err := ExportPageToJSON(testFields(), testRows(), path); err != nil {
		t.Fatalf("ExportPageToJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var out []map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2", len(out))
	}
	// raw values, not display values
	if out[0]["name"] != "widget" {
		t.Errorf("name = %v, want widget", out[0]["name"])
	}
	if out[1]["qty"] != float64(12) {
		t.Errorf("qty = %v, want 12", out[1]["qty"])
	}
}
