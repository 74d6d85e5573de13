package schema

import "testing"

func TestValidVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"1.0.0", true},
		{"0.0.0", true},
		{"10.20.30", true},
		{"1.0", false},
		{"1.0.0.0", false},
		{"v1.0.0", false},
		{"1.0.x", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidVersion(tt.version); got != tt.want {
			t.Errorf("ValidVersion(%q) = %v, want %v", tt.version, got, tt.want)
		}
	}
}

func TestWeight(t *testing.T) {
	tests := []struct {
		version string
		want    int64
	}{
		{"0.0.0", 0},
		{"1.0.0", 1_000_000},
		{"1.2.3", 1_002_003},
		{"2.0.10", 2_000_010},
	}

	for _, tt := range tests {
		got, err := Weight(tt.version)
		if err != nil {
			t.Fatalf("Weight(%q): %v", tt.version, err)
		}
		if got != tt.want {
			t.Errorf("Weight(%q) = %d, want %d", tt.version, got, tt.want)
		}
	}

	if _, err := Weight("not-a-version"); err == nil {
		t.Error("Weight should reject malformed version")
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.999.999", 1},
		{"1.2.3", "1.2.3", 0},
	}

	for _, tt := range tests {
		if got := CompareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestHighestVersion(t *testing.T) {
	got := HighestVersion([]string{"1.0.0", "1.2.0", "1.1.9", "0.9.9"})
	if got != "1.2.0" {
		t.Errorf("HighestVersion = %q, want 1.2.0", got)
	}

	if got := HighestVersion(nil); got != "" {
		t.Errorf("HighestVersion(nil) = %q, want empty", got)
	}

	// Malformed entries are skipped, not treated as highest.
	got = HighestVersion([]string{"garbage", "1.0.1"})
	if got != "1.0.1" {
		t.Errorf("HighestVersion with garbage = %q, want 1.0.1", got)
	}
}

func TestNextPatch(t *testing.T) {
	got, err := NextPatch("1.2.3")
	if err != nil {
		t.Fatalf("NextPatch: %v", err)
	}
	if got != "1.2.4" {
		t.Errorf("NextPatch(1.2.3) = %q, want 1.2.4", got)
	}

	if _, err := NextPatch("1.2"); err == nil {
		t.Error("NextPatch should reject malformed version")
	}
}

func TestSchemaValidate(t *testing.T) {
	valid := Schema{
		Name:    "positions",
		Version: "1.0.0",
		Fields: []Field{
			{Name: "cusip", Type: FieldString, Required: true},
			{Name: "quantity", Type: FieldNumber},
		},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid schema rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Schema)
	}{
		{"empty name", func(s *Schema) { s.Name = "  " }},
		{"bad version", func(s *Schema) { s.Version = "1.0" }},
		{"unnamed field", func(s *Schema) { s.Fields[0].Name = "" }},
		{"unknown type", func(s *Schema) { s.Fields[0].Type = "uuid" }},
		{"duplicate field", func(s *Schema) { s.Fields[1].Name = "cusip" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			s.Fields = append([]Field(nil), valid.Fields...)
			tt.mutate(&s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsValidation(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}
