package merge

import (
	"fmt"

	"beacon/internal/record"
)

// Source identifies which side of a comparison supplies a field value.
type Source string

const (
	SourceNew      Source = "new"
	SourceExisting Source = "existing"
)

// FieldComparison is one field's view of the merge: both values, the current
// selection, and whether the values genuinely conflict.
type FieldComparison struct {
	Field         string `json:"field"`
	NewValue      string `json:"newValue"`
	ExistingValue string `json:"existingValue"`
	Selected      Source `json:"selected"`
	Conflict      bool   `json:"conflict"`
}

// Decision is the mutable per-field selection map for one reconciliation.
// It starts from the default selections and accepts user overrides until it
// is collapsed into a final field map.
type Decision struct {
	comparisons []FieldComparison
	index       map[string]int
}

// NewDecision builds the comparison for every canonical field and applies the
// default selection: the freshest observation wins whenever it has a value,
// the existing record wins only when it alone has one, and an empty-vs-empty
// field defaults to new for determinism. Defaulting is deterministic, so
// building a decision twice from the same inputs yields identical selections.
func NewDecision(newRec, existing record.Record) *Decision {
	newFields := newRec.Fields()
	existingFields := existing.Fields()

	d := &Decision{index: make(map[string]int, len(record.FieldOrder))}
	for _, field := range record.FieldOrder {
		newValue := newFields[field]
		existingValue := existingFields[field]

		cmp := FieldComparison{
			Field:         field,
			NewValue:      newValue,
			ExistingValue: existingValue,
			Conflict:      newValue != "" && existingValue != "" && newValue != existingValue,
		}
		switch {
		case newValue == "" && existingValue != "":
			cmp.Selected = SourceExisting
		default:
			cmp.Selected = SourceNew
		}
		d.index[field] = len(d.comparisons)
		d.comparisons = append(d.comparisons, cmp)
	}
	return d
}

// Comparisons returns a copy of the current per-field state in canonical order.
func (d *Decision) Comparisons() []FieldComparison {
	out := make([]FieldComparison, len(d.comparisons))
	copy(out, d.comparisons)
	return out
}

// Conflicts returns only the fields where both sides hold differing values.
func (d *Decision) Conflicts() []FieldComparison {
	var out []FieldComparison
	for _, cmp := range d.comparisons {
		if cmp.Conflict {
			out = append(out, cmp)
		}
	}
	return out
}

// Select overrides one field's selection before the decision is collapsed.
func (d *Decision) Select(field string, source Source) error {
	idx, ok := d.index[field]
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}
	switch source {
	case SourceNew, SourceExisting:
	default:
		return fmt.Errorf("invalid source %q for field %q", source, field)
	}
	d.comparisons[idx].Selected = source
	return nil
}

// SelectAll applies one source to every field.
func (d *Decision) SelectAll(source Source) error {
	for _, field := range record.FieldOrder {
		if err := d.Select(field, source); err != nil {
			return err
		}
	}
	return nil
}

// Collapse resolves the selections into the final merged record.
func (d *Decision) Collapse() record.Record {
	fields := make(map[string]string, len(d.comparisons))
	for _, cmp := range d.comparisons {
		if cmp.Selected == SourceExisting {
			fields[cmp.Field] = cmp.ExistingValue
		} else {
			fields[cmp.Field] = cmp.NewValue
		}
	}
	return record.FromFields(fields)
}
