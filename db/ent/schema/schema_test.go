package schema

import (
	"testing"

	"entgo.io/ent"
)

func TestFieldValidators(t *testing.T) {
	byName := func(fields []ent.Field, name string) ent.Field {
		for _, f := range fields {
			if f.Descriptor().Name == name {
				return f
			}
		}
		t.Fatalf("field %q not declared", name)
		return nil
	}

	status := byName(ExtractJob{}.Fields(), "status").Descriptor()
	if len(status.Validators) != 1 {
		t.Fatalf("status validators = %d, want 1", len(status.Validators))
	}
	check := status.Validators[0].(func(string) error)
	if err := check("EXTRACTED"); err != nil {
		t.Errorf("status EXTRACTED rejected: %v", err)
	}
	if err := check("DONE"); err == nil {
		t.Error("status DONE accepted")
	}

	format := byName(ExtractJob{}.Fields(), "format").Descriptor()
	var formatOK bool
	for _, v := range format.Validators {
		if fn, ok := v.(func(string) error); ok && fn("PDF") == nil && fn("DOCX") != nil {
			formatOK = true
		}
	}
	if !formatOK {
		t.Error("format validator does not restrict to file types")
	}
}
