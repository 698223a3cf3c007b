// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"testing"

	"github.com/altshiftab/jtd/pkg/jvalue"
)

func obj(pairs ...any) *jvalue.Object {
	o := jvalue.NewObject()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1])
	}
	return o
}

func TestFromValue_RejectsNonObject(t *testing.T) {
	_, err := FromValue("not a schema")
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if se.Kind != TypeMismatch {
		t.Errorf("Kind = %v, want %v", se.Kind, TypeMismatch)
	}
}

func TestFromValue_RejectsIllegalKeyword(t *testing.T) {
	_, err := FromValue(obj("bogus", "x"))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %v", err)
	}
	if se.Kind != IllegalKeyword {
		t.Errorf("Kind = %v, want %v", se.Kind, IllegalKeyword)
	}
}

func TestFromValue_KeywordTypeMismatches(t *testing.T) {
	cases := []struct {
		name   string
		schema *jvalue.Object
		want   SchemaErrorKind
	}{
		{"nullable", obj("nullable", "yes"), TypeMismatch},
		{"metadata", obj("metadata", 1.0), TypeMismatch},
		{"definitions", obj("definitions", "x"), TypeMismatch},
		{"ref", obj("ref", 1.0), TypeMismatch},
		{"type", obj("type", 1.0), TypeMismatch},
		{"enum", obj("enum", "x"), TypeMismatch},
		{"enum element", obj("enum", []jvalue.Value{1.0}), InvalidEnum},
		{"properties", obj("properties", "x"), TypeMismatch},
		{"optionalProperties", obj("optionalProperties", "x"), TypeMismatch},
		{"mapping", obj("mapping", "x"), TypeMismatch},
		{"additionalProperties", obj("additionalProperties", "x"), TypeMismatch},
		{"discriminator", obj("discriminator", 1.0), TypeMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromValue(tc.schema)
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SchemaError, got %v", err)
			}
			if se.Kind != tc.want {
				t.Errorf("Kind = %v, want %v", se.Kind, tc.want)
			}
		})
	}
}

func TestFromValue_RecursesIntoChildren(t *testing.T) {
	s, err := FromValue(obj(
		"definitions", obj("nameSchema", obj("type", "string")),
		"properties", obj("name", obj("ref", "nameSchema")),
	))
	if err != nil {
		t.Fatalf("FromValue: %v", err)
	}
	if s.Definitions.Len() != 1 {
		t.Fatalf("Definitions.Len() = %d, want 1", s.Definitions.Len())
	}
	def, ok := s.Definitions.Get("nameSchema")
	if !ok || def.Type != TypeString {
		t.Errorf("Definitions[nameSchema] = %v, want type=string", def)
	}
	nameProp, ok := s.Properties.Get("name")
	if !ok || nameProp.Ref == nil || *nameProp.Ref != "nameSchema" {
		t.Errorf("Properties[name] = %v, want ref=nameSchema", nameProp)
	}
}

func TestForm(t *testing.T) {
	cases := []struct {
		name   string
		schema *Schema
		want   Form
	}{
		{"empty", &Schema{}, FormEmpty},
		{"ref", &Schema{Ref: strp("x")}, FormRef},
		{"type", &Schema{Type: TypeString}, FormType},
		{"enum", &Schema{Enum: []string{"a"}}, FormEnum},
		{"elements", &Schema{Elements: &Schema{}}, FormElements},
		{"properties", &Schema{Properties: NewFields()}, FormProperties},
		{"optionalProperties", &Schema{OptionalProperties: NewFields()}, FormProperties},
		{"values", &Schema{Values: &Schema{}}, FormValues},
		{"discriminator", &Schema{Discriminator: strp("kind"), Mapping: NewFields()}, FormDiscriminator},
		{
			"precedence: ref beats everything",
			&Schema{Ref: strp("x"), Type: TypeString, Enum: []string{"a"}},
			FormRef,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.schema.Form(); got != tc.want {
				t.Errorf("Form() = %v, want %v", got, tc.want)
			}
		})
	}
}

func strp(s string) *string { return &s }
