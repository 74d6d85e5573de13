package schema

import (
	"testing"
	"time"
)

func TestExport(t *testing.T) {
	s := Schema{
		ID:      "s1",
		Name:    "holdings",
		Version: "2.1.0",
		Fields:  []Field{{Name: "cusip", Type: FieldString, Required: true}},
		Notes:   "quarterly feed",
	}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	doc := Export(s, "ops@custodian.example", at)

	if doc.Format != ExportFormat {
		t.Errorf("format = %q, want %q", doc.Format, ExportFormat)
	}
	if doc.Name != "holdings" || doc.Version != "2.1.0" {
		t.Errorf("envelope = %+v", doc)
	}
	if !doc.ExportedAt.Equal(at) || doc.ExportedBy != "ops@custodian.example" {
		t.Errorf("provenance = %v %q", doc.ExportedAt, doc.ExportedBy)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("exported document should validate: %v", err)
	}
}

func TestExportDocumentValidate(t *testing.T) {
	valid := ExportDocument{
		Name:    "holdings",
		Version: "1.0.0",
		Fields:  []Field{{Name: "cusip", Type: FieldString, Required: true}},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid document rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ExportDocument)
	}{
		{"empty name", func(d *ExportDocument) { d.Name = "" }},
		{"bad version", func(d *ExportDocument) { d.Version = "1" }},
		{"nil fields", func(d *ExportDocument) { d.Fields = nil }},
		{"field missing type", func(d *ExportDocument) { d.Fields[0].Type = "" }},
		{"field missing name", func(d *ExportDocument) { d.Fields[0].Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			d.Fields = append([]Field(nil), valid.Fields...)
			tt.mutate(&d)
			if err := d.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
