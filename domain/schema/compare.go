package schema

import "encoding/json"

// PartialField carries only the attributes that differ between two
// versions of a field. Nil pointers mean "unchanged".
type PartialField struct {
	Type        *FieldType       `json:"type,omitempty"`
	Required    *bool            `json:"required,omitempty"`
	Description *string          `json:"description,omitempty"`
	Validation  []ValidationRule `json:"validation,omitempty"`
}

// FieldChange reports one modified field with the differing attributes
// populated on each side.
type FieldChange struct {
	Name   string       `json:"name"`
	Before PartialField `json:"before"`
	After  PartialField `json:"after"`
}

// Diff is the added/removed/modified delta between two field lists.
// Slices are always non-nil so the JSON surface renders [] rather than null.
type Diff struct {
	Added    []Field       `json:"added"`
	Removed  []Field       `json:"removed"`
	Modified []FieldChange `json:"modified"`
}

// Compare computes the delta from a to b. Added fields follow b's
// insertion order; removed and modified follow a's.
func Compare(a, b Schema) Diff {
	return CompareFields(a.Fields, b.Fields)
}

// CompareFields computes the delta between two field lists by name.
// A field present in both lists is modified when its type, required
// flag, description, or serialized validation-rule list differ.
func CompareFields(from, to []Field) Diff {
	d := Diff{
		Added:    []Field{},
		Removed:  []Field{},
		Modified: []FieldChange{},
	}

	fromByName := make(map[string]Field, len(from))
	for _, f := range from {
		fromByName[f.Name] = f
	}
	toByName := make(map[string]Field, len(to))
	for _, f := range to {
		toByName[f.Name] = f
	}

	for _, f := range to {
		if _, ok := fromByName[f.Name]; !ok {
			d.Added = append(d.Added, f)
		}
	}
	for _, f := range from {
		if _, ok := toByName[f.Name]; !ok {
			d.Removed = append(d.Removed, f)
		}
	}
	for _, before := range from {
		after, ok := toByName[before.Name]
		if !ok {
			continue
		}
		if change, changed := diffField(before, after); changed {
			d.Modified = append(d.Modified, change)
		}
	}

	return d
}

func diffField(before, after Field) (FieldChange, bool) {
	change := FieldChange{Name: before.Name}
	changed := false

	if before.Type != after.Type {
		b, a := before.Type, after.Type
		change.Before.Type, change.After.Type = &b, &a
		changed = true
	}
	if before.Required != after.Required {
		b, a := before.Required, after.Required
		change.Before.Required, change.After.Required = &b, &a
		changed = true
	}
	if before.Description != after.Description {
		b, a := before.Description, after.Description
		change.Before.Description, change.After.Description = &b, &a
		changed = true
	}
	if serializeRules(before.Validation) != serializeRules(after.Validation) {
		change.Before.Validation = before.Validation
		change.After.Validation = after.Validation
		changed = true
	}

	return change, changed
}

// serializeRules gives a canonical comparison key for a rule list.
// An empty list and a nil list serialize identically.
func serializeRules(rules []ValidationRule) string {
	if len(rules) == 0 {
		return ""
	}
	b, err := json.Marshal(rules)
	if err != nil {
		return ""
	}
	return string(b)
}
