package app_test

import (
	"context"
	"testing"

	"github.com/codybmenefee/custodian-integration-tool/app"
	"github.com/codybmenefee/custodian-integration-tool/domain/schema"
)

func TestImport_NewName(t *testing.T) {
	store := newMemSchemaStore()
	svc := newSchemaService(store)

	raw := []byte(`{
		"format": "custodian.schema.v1",
		"name": "trades",
		"version": "2.1.0",
		"fields": [
			{"name": "trade_id", "type": "string", "required": true},
			{"name": "settled", "type": "boolean", "required": false}
		]
	}`)

	sc, err := svc.Import(context.Background(), raw, "ops@custodian.example")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sc.Name != "trades" || sc.Version != "2.1.0" {
		t.Errorf("schema = %+v", sc)
	}
	if !sc.IsLatestVersion {
		t.Error("imported schema should be latest")
	}
	if len(sc.Fields) != 2 {
		t.Errorf("fields = %+v", sc.Fields)
	}
}

func TestImport_VersionCollisionBumpsPatch(t *testing.T) {
	store := newMemSchemaStore()
	svc := newSchemaService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, app.CreateInput{Name: "trades", Version: "1.2.0", Fields: testFields()}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	raw := []byte(`{
		"name": "trades",
		"version": "1.2.0",
		"fields": [{"name": "trade_id", "type": "string", "required": true}]
	}`)

	sc, err := svc.Import(ctx, raw, "ops@custodian.example")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sc.Version != "1.2.1" {
		t.Errorf("version = %q, want 1.2.1", sc.Version)
	}
	if schema.CompareVersions(sc.Version, "1.2.0") <= 0 {
		t.Error("resolved version must be strictly greater than existing")
	}
	all, _ := store.ListByName(ctx, "trades")
	if len(all) != 2 {
		t.Errorf("version count = %d, want 2", len(all))
	}
}

func TestImport_CollisionUsesHighestExisting(t *testing.T) {
	store := newMemSchemaStore()
	svc := newSchemaService(store)
	ctx := context.Background()

	first, err := svc.Create(ctx, app.CreateInput{Name: "trades", Version: "1.0.0", Fields: testFields()})
	if err != nil {
		t.Fatalf("seed 1.0.0: %v", err)
	}
	if _, err := svc.CreateVersion(ctx, first.ID, app.VersionInput{Version: "3.4.5"}); err != nil {
		t.Fatalf("seed 3.4.5: %v", err)
	}

	// Collides with 1.0.0 but must resolve above the highest existing version.
	raw := []byte(`{
		"name": "trades",
		"version": "1.0.0",
		"fields": [{"name": "trade_id", "type": "string", "required": true}]
	}`)

	sc, err := svc.Import(ctx, raw, "ops@custodian.example")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sc.Version != "3.4.6" {
		t.Errorf("version = %q, want 3.4.6", sc.Version)
	}
}

func TestImport_RejectsWithoutWriting(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"malformed json", `{"name": "trades",`},
		{"missing version", `{"name": "trades", "fields": []}`},
		{"field missing type", `{"name": "trades", "version": "1.0.0",
			"fields": [{"name": "x", "required": true}]}`},
		{"bad field type", `{"name": "trades", "version": "1.0.0",
			"fields": [{"name": "x", "type": "uuid", "required": true}]}`},
		{"bad version format", `{"name": "trades", "version": "v1",
			"fields": [{"name": "x", "type": "string", "required": true}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemSchemaStore()
			svc := newSchemaService(store)

			_, err := svc.Import(context.Background(), []byte(tt.raw), "ops@custodian.example")
			if !schema.IsValidation(err) {
				t.Errorf("err = %v, want validation error", err)
			}
			if n, _ := store.Count(context.Background()); n != 0 {
				t.Errorf("store count = %d, want 0 after rejected import", n)
			}
		})
	}
}

func TestImport_ProvenanceNote(t *testing.T) {
	store := newMemSchemaStore()
	svc := newSchemaService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, app.CreateInput{Name: "trades", Version: "1.0.0", Fields: testFields()}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	raw := []byte(`{
		"name": "trades",
		"version": "1.0.0",
		"fields": [{"name": "trade_id", "type": "string", "required": true}]
	}`)
	sc, err := svc.Import(ctx, raw, "ops@custodian.example")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if sc.Notes == "" {
		t.Error("renumbered import should record provenance in notes")
	}
}
