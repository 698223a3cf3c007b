// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"log/slog"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"
)

// Verify checks that s conforms to the RFC 8927 form rules and that
// every "ref" names an existing definition. It returns s unchanged on
// success, or a [*SchemaError] describing the first violation found.
//
// Verify checks structural well-formedness: form signature, root-only
// definitions, dangling refs, valid type tags, enum shape, disjoint
// properties, and mapping rules. Per-field JSON-shape checks (spec.md
// §4.2 step 1) live entirely in FromValue/addKeyword: a *Schema's field
// types are enforced by the Go compiler, so there is nothing left for
// Verify to check there — e.g. a hand-built Schema with a Type of
// "not-a-type" is caught by Verify's invalid-type check (step 5), not
// by re-running a shape check that a typed field makes moot.
func Verify(s *Schema) (*Schema, error) {
	if err := verifyNode(s, true, s); err != nil {
		return nil, motmedelErrors.NewWithTrace(err)
	}
	slog.Debug("schema.Verify: schema verified", "form", s.Form())
	return s, nil
}

// verifyNode runs the ordered check list from spec.md §4.2 against s,
// which is the root schema iff isRoot. root is always the top-level
// schema, used to resolve "ref" against its "definitions".
func verifyNode(s *Schema, isRoot bool, root *Schema) error {
	if err := checkFormSignature(s); err != nil {
		return err
	}

	if s.Definitions != nil && !isRoot {
		return &SchemaError{Kind: NonRootDefinitions, Detail: "definitions is only legal on the root schema"}
	}

	if s.Ref != nil {
		if root.Definitions == nil {
			return &SchemaError{Kind: DanglingRef, Path: []string{"ref"}, Detail: "no definitions declared on root"}
		}
		if _, ok := root.Definitions.Get(*s.Ref); !ok {
			return &SchemaError{Kind: DanglingRef, Path: []string{"ref"}, Detail: "no definition named " + *s.Ref}
		}
	}

	if s.Type != "" {
		if !primitiveTypes[s.Type] {
			return &SchemaError{Kind: InvalidType, Path: []string{"type"}, Detail: "unrecognized type " + s.Type}
		}
	}

	if s.Enum != nil {
		if err := checkEnum(s.Enum); err != nil {
			return err
		}
	}

	if s.Properties != nil && s.OptionalProperties != nil {
		for _, k := range s.Properties.Keys() {
			if s.OptionalProperties.Has(k) {
				return &SchemaError{Kind: RepeatedProperty, Path: []string{"properties", k}, Detail: "also declared in optionalProperties"}
			}
		}
	}

	if s.Mapping != nil {
		if err := checkMapping(s, root); err != nil {
			return err
		}
	}

	return verifyChildren(s, root)
}

// checkFormSignature reports whether s's set of structural keywords
// matches one of the valid form signatures enumerated in spec.md §3.
func checkFormSignature(s *Schema) error {
	sig := formSignature{
		ref:                  s.Ref != nil,
		typ:                  s.Type != "",
		enum:                 s.Enum != nil,
		elements:             s.Elements != nil,
		properties:           s.Properties != nil,
		optionalProperties:   s.OptionalProperties != nil,
		additionalProperties: s.hasAdditionalProperties(),
		values:               s.Values != nil,
		discriminator:        s.Discriminator != nil,
		mapping:              s.Mapping != nil,
	}
	for _, valid := range validFormSignatures {
		if sig == valid {
			return nil
		}
	}
	return &SchemaError{Kind: InvalidForm, Detail: "no keyword combination matches a valid JTD form"}
}

// formSignature records which structural keywords are present on a
// schema, ignoring "metadata", "nullable", and "definitions" (which
// restrict nothing about form).
type formSignature struct {
	ref, typ, enum, elements       bool
	properties, optionalProperties bool
	additionalProperties, values   bool
	discriminator, mapping         bool
}

// validFormSignatures enumerates every legal combination of structural
// keywords, per spec.md §3.
var validFormSignatures = []formSignature{
	{}, // empty
	{ref: true},
	{typ: true},
	{enum: true},
	{elements: true},
	{properties: true},
	{optionalProperties: true},
	{properties: true, optionalProperties: true},
	{properties: true, additionalProperties: true},
	{optionalProperties: true, additionalProperties: true},
	{properties: true, optionalProperties: true, additionalProperties: true},
	{values: true},
	{discriminator: true, mapping: true},
}

// checkEnum validates the "enum" keyword: non-empty, all strings
// (guaranteed by the Schema field type), no duplicates.
func checkEnum(vals []string) error {
	if len(vals) == 0 {
		return &SchemaError{Kind: InvalidEnum, Path: []string{"enum"}, Detail: "enum must not be empty"}
	}
	seen := make(map[string]bool, len(vals))
	for _, v := range vals {
		if seen[v] {
			return &SchemaError{Kind: InvalidEnum, Path: []string{"enum"}, Detail: "duplicate enum value " + v}
		}
		seen[v] = true
	}
	return nil
}

// checkMapping validates every value in "mapping": properties-form,
// not nullable, and not re-declaring the discriminator key.
func checkMapping(s *Schema, root *Schema) error {
	for _, tag := range s.Mapping.Keys() {
		m, _ := s.Mapping.Get(tag)
		if m.Form() != FormProperties {
			return &SchemaError{Kind: InvalidMapping, Path: []string{"mapping", tag}, Detail: "mapping values must be properties-form"}
		}
		if m.Nullable {
			return &SchemaError{Kind: InvalidMapping, Path: []string{"mapping", tag}, Detail: "mapping values must not be nullable"}
		}
		disc := ""
		if s.Discriminator != nil {
			disc = *s.Discriminator
		}
		if m.Properties != nil && m.Properties.Has(disc) {
			return &SchemaError{Kind: InvalidMapping, Path: []string{"mapping", tag}, Detail: "mapping value re-declares discriminator " + disc}
		}
		if m.OptionalProperties != nil && m.OptionalProperties.Has(disc) {
			return &SchemaError{Kind: InvalidMapping, Path: []string{"mapping", tag}, Detail: "mapping value re-declares discriminator " + disc}
		}
	}
	return nil
}

// verifyChildren recurses verifyNode over every child schema of s:
// definitions, elements, properties, optionalProperties, values,
// mapping. Each recursion carries isRoot=false and the same root.
func verifyChildren(s *Schema, root *Schema) error {
	if s.Definitions != nil {
		for _, name := range s.Definitions.Keys() {
			child, _ := s.Definitions.Get(name)
			if err := verifyNode(child, false, root); err != nil {
				return err
			}
		}
	}
	if s.Elements != nil {
		if err := verifyNode(s.Elements, false, root); err != nil {
			return err
		}
	}
	if s.Properties != nil {
		for _, name := range s.Properties.Keys() {
			child, _ := s.Properties.Get(name)
			if err := verifyNode(child, false, root); err != nil {
				return err
			}
		}
	}
	if s.OptionalProperties != nil {
		for _, name := range s.OptionalProperties.Keys() {
			child, _ := s.OptionalProperties.Get(name)
			if err := verifyNode(child, false, root); err != nil {
				return err
			}
		}
	}
	if s.Values != nil {
		if err := verifyNode(s.Values, false, root); err != nil {
			return err
		}
	}
	if s.Mapping != nil {
		for _, name := range s.Mapping.Keys() {
			child, _ := s.Mapping.Get(name)
			if err := verifyNode(child, false, root); err != nil {
				return err
			}
		}
	}
	return nil
}
