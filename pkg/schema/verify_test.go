// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"testing"
)

func TestVerify_ValidSchemas(t *testing.T) {
	cases := []struct {
		name   string
		schema *Schema
	}{
		{"empty", &Schema{}},
		{"type", &Schema{Type: TypeString}},
		{"enum", &Schema{Enum: []string{"a", "b"}}},
		{"elements", &Schema{Elements: &Schema{Type: TypeString}}},
		{"properties only", func() *Schema {
			p := NewFields()
			p.Set("a", &Schema{Type: TypeString})
			return &Schema{Properties: p}
		}()},
		{"properties+optionalProperties disjoint", func() *Schema {
			p, op := NewFields(), NewFields()
			p.Set("a", &Schema{Type: TypeString})
			op.Set("b", &Schema{Type: TypeString})
			return &Schema{Properties: p, OptionalProperties: op}
		}()},
		{"values", &Schema{Values: &Schema{Type: TypeString}}},
		{"ref with definitions", func() *Schema {
			d := NewFields()
			d.Set("x", &Schema{Type: TypeString})
			r := "x"
			return &Schema{Definitions: d, Ref: &r}
		}()},
		{"discriminator+mapping", func() *Schema {
			m := NewFields()
			p := NewFields()
			p.Set("sound", &Schema{Type: TypeString})
			m.Set("cat", &Schema{Properties: p})
			disc := "kind"
			return &Schema{Discriminator: &disc, Mapping: m}
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Verify(tc.schema); err != nil {
				t.Errorf("Verify() = %v, want nil", err)
			}
		})
	}
}

func TestVerify_InvalidForm(t *testing.T) {
	// type and enum both set: not a valid form signature.
	s := &Schema{Type: TypeString, Enum: []string{"a"}}
	_, err := Verify(s)
	assertKind(t, err, InvalidForm)
}

func TestVerify_NonRootDefinitions(t *testing.T) {
	d := NewFields()
	d.Set("x", &Schema{Type: TypeString})
	inner := &Schema{Definitions: d}
	outer := &Schema{Elements: inner}
	_, err := Verify(outer)
	assertKind(t, err, NonRootDefinitions)
}

// A Schema built directly (not through FromValue) with only
// AdditionalProperties set has no valid form signature: {additional_
// properties} alone is not in spec.md §3's enumerated set, since it is
// only meaningful alongside properties/optionalProperties.
func TestVerify_InvalidForm_AdditionalPropertiesAlone(t *testing.T) {
	yes := true
	s := &Schema{AdditionalProperties: &yes}
	_, err := Verify(s)
	assertKind(t, err, InvalidForm)
}

func TestVerify_DanglingRef(t *testing.T) {
	r := "missing"
	s := &Schema{Ref: &r}
	_, err := Verify(s)
	assertKind(t, err, DanglingRef)
}

func TestVerify_InvalidType(t *testing.T) {
	s := &Schema{Type: "not-a-type"}
	_, err := Verify(s)
	assertKind(t, err, InvalidType)
}

func TestVerify_InvalidEnum(t *testing.T) {
	cases := []struct {
		name string
		enum []string
	}{
		{"empty", []string{}},
		{"duplicate", []string{"a", "a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &Schema{Enum: tc.enum}
			_, err := Verify(s)
			assertKind(t, err, InvalidEnum)
		})
	}
}

func TestVerify_RepeatedProperty(t *testing.T) {
	p, op := NewFields(), NewFields()
	p.Set("a", &Schema{Type: TypeString})
	op.Set("a", &Schema{Type: TypeString})
	s := &Schema{Properties: p, OptionalProperties: op}
	_, err := Verify(s)
	assertKind(t, err, RepeatedProperty)
}

func TestVerify_InvalidMapping(t *testing.T) {
	cases := []struct {
		name    string
		mapping *Schema
	}{
		{"not properties form", &Schema{Type: TypeString}},
		{"nullable", func() *Schema {
			p := NewFields()
			p.Set("sound", &Schema{Type: TypeString})
			return &Schema{Properties: p, Nullable: true}
		}()},
		{"shadows discriminator", func() *Schema {
			p := NewFields()
			p.Set("kind", &Schema{Type: TypeString})
			return &Schema{Properties: p}
		}()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewFields()
			m.Set("cat", tc.mapping)
			disc := "kind"
			s := &Schema{Discriminator: &disc, Mapping: m}
			_, err := Verify(s)
			assertKind(t, err, InvalidMapping)
		})
	}
}

func TestVerify_RecursesIntoChildren(t *testing.T) {
	// A dangling ref nested three levels deep (definitions -> elements ->
	// properties) must still be caught.
	badRef := "missing"
	p := NewFields()
	p.Set("field", &Schema{Ref: &badRef})
	d := NewFields()
	d.Set("outer", &Schema{Elements: &Schema{Properties: p}})
	s := &Schema{Definitions: d}
	_, err := Verify(s)
	assertKind(t, err, DanglingRef)
}

func TestVerify_Idempotent(t *testing.T) {
	p := NewFields()
	p.Set("a", &Schema{Type: TypeString})
	s := &Schema{Properties: p}

	first, err := Verify(s)
	if err != nil {
		t.Fatalf("first Verify: %v", err)
	}
	second, err := Verify(first)
	if err != nil {
		t.Fatalf("second Verify: %v", err)
	}
	if first != second {
		t.Errorf("Verify is not idempotent: got different schema values")
	}
}

func assertKind(t *testing.T, err error, want SchemaErrorKind) {
	t.Helper()
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if se.Kind != want {
		t.Errorf("Kind = %v, want %v", se.Kind, want)
	}
}
