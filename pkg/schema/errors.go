// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"strings"
)

// SchemaErrorKind classifies a failure to parse or verify a Schema.
type SchemaErrorKind string

const (
	// TypeMismatch means a keyword's value had the wrong JSON shape.
	TypeMismatch SchemaErrorKind = "typeMismatch"
	// IllegalKeyword means a schema object contained a key outside the
	// fixed JTD keyword set.
	IllegalKeyword SchemaErrorKind = "illegalKeyword"
	// InvalidForm means a schema's set of structural keywords does not
	// match any of the enumerated valid form signatures.
	InvalidForm SchemaErrorKind = "invalidForm"
	// NonRootDefinitions means a non-root schema declared "definitions".
	NonRootDefinitions SchemaErrorKind = "nonRootDefinitions"
	// DanglingRef means a "ref" named a definition that does not exist.
	DanglingRef SchemaErrorKind = "danglingRef"
	// InvalidType means "type" was not one of the eleven primitive tags.
	InvalidType SchemaErrorKind = "invalidType"
	// InvalidEnum means "enum" was empty, contained a non-string, or
	// contained a duplicate.
	InvalidEnum SchemaErrorKind = "invalidEnum"
	// RepeatedProperty means "properties" and "optionalProperties" share
	// a key.
	RepeatedProperty SchemaErrorKind = "repeatedProperty"
	// InvalidMapping means a "mapping" value was not properties-form,
	// was nullable, or re-declared the discriminator key.
	InvalidMapping SchemaErrorKind = "invalidMapping"
)

// SchemaError is returned by [FromValue] and [Verify] to describe the
// first violation encountered. For errors from [FromValue], Path is the
// sequence of keyword/name tokens from the schema root to the offending
// keyword. Errors from [Verify] carry only the tokens on the offending
// node itself (such as ["ref"] or ["mapping", tag]), not the path from
// the root, and InvalidForm and NonRootDefinitions carry no Path.
type SchemaError struct {
	Kind   SchemaErrorKind
	Path   []string
	Detail string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	loc := "#"
	if len(e.Path) > 0 {
		loc = "#/" + strings.Join(e.Path, "/")
	}
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", loc, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Kind, e.Detail)
}
