// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema implements the JSON Type Definition (RFC 8927) schema
// model: parsing a decoded JSON value into a Schema ([FromValue]) and
// checking that a Schema obeys the RFC's form rules ([Verify]).
package schema

import (
	"fmt"
	"log/slog"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"

	"github.com/altshiftab/jtd/pkg/jvalue"
)

// The fixed set of JTD keywords. Any other key in a schema mapping is
// an IllegalKeyword.
const (
	keyMetadata             = "metadata"
	keyNullable             = "nullable"
	keyDefinitions          = "definitions"
	keyRef                  = "ref"
	keyType                 = "type"
	keyEnum                 = "enum"
	keyElements             = "elements"
	keyProperties           = "properties"
	keyOptionalProperties   = "optionalProperties"
	keyAdditionalProperties = "additionalProperties"
	keyValues               = "values"
	keyDiscriminator        = "discriminator"
	keyMapping              = "mapping"
)

// The eleven JTD primitive type tags.
const (
	TypeBoolean   = "boolean"
	TypeString    = "string"
	TypeTimestamp = "timestamp"
	TypeFloat32   = "float32"
	TypeFloat64   = "float64"
	TypeInt8      = "int8"
	TypeUint8     = "uint8"
	TypeInt16     = "int16"
	TypeUint16    = "uint16"
	TypeInt32     = "int32"
	TypeUint32    = "uint32"
)

// primitiveTypes is the set of valid values for the "type" keyword.
var primitiveTypes = map[string]bool{
	TypeBoolean:   true,
	TypeString:    true,
	TypeTimestamp: true,
	TypeFloat32:   true,
	TypeFloat64:   true,
	TypeInt8:      true,
	TypeUint8:     true,
	TypeInt16:     true,
	TypeUint16:    true,
	TypeInt32:     true,
	TypeUint32:    true,
}

// Form is a Schema's structural discriminant.
type Form string

const (
	FormEmpty         Form = "empty"
	FormRef           Form = "ref"
	FormType          Form = "type"
	FormEnum          Form = "enum"
	FormElements      Form = "elements"
	FormProperties    Form = "properties"
	FormValues        Form = "values"
	FormDiscriminator Form = "discriminator"
)

// Fields is an insertion-ordered string-keyed map of *Schema. It backs
// the "definitions", "properties", "optionalProperties", and "mapping"
// keywords, all of which require their declaration order to be
// observable during validation (RFC 8927; see spec.md §4.3.2).
type Fields struct {
	keys []string
	m    map[string]*Schema
}

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return &Fields{m: make(map[string]*Schema)}
}

// Set adds or replaces the schema for name.
func (f *Fields) Set(name string, s *Schema) {
	if _, ok := f.m[name]; !ok {
		f.keys = append(f.keys, name)
	}
	f.m[name] = s
}

// Get returns the schema for name and reports whether it was present.
func (f *Fields) Get(name string) (*Schema, bool) {
	s, ok := f.m[name]
	return s, ok
}

// Has reports whether name is present.
func (f *Fields) Has(name string) bool {
	_, ok := f.m[name]
	return ok
}

// Len returns the number of entries.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the member names in declaration order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	return f.keys
}

// Schema is an in-memory JSON Type Definition schema. It is immutable
// once returned from [FromValue]. Every field is optional; which
// fields are set determines the schema's [Form].
type Schema struct {
	Metadata             *jvalue.Object
	Nullable             bool
	Definitions          *Fields // only legal on the root schema
	Ref                  *string
	Type                 string
	Enum                 []string
	Elements             *Schema
	Properties           *Fields
	OptionalProperties   *Fields
	AdditionalProperties *bool
	Values               *Schema
	Discriminator        *string
	Mapping              *Fields
}

// Form returns s's structural discriminant. The precedence — ref, type,
// enum, elements, properties/optionalProperties, values, discriminator,
// empty — matters only for malformed schemas with more than one
// structural keyword set; [Verify] rejects those before Form's result
// can be observed by validation.
func (s *Schema) Form() Form {
	switch {
	case s.Ref != nil:
		return FormRef
	case s.Type != "":
		return FormType
	case s.Enum != nil:
		return FormEnum
	case s.Elements != nil:
		return FormElements
	case s.Properties != nil || s.OptionalProperties != nil:
		return FormProperties
	case s.Values != nil:
		return FormValues
	case s.Discriminator != nil || s.Mapping != nil:
		return FormDiscriminator
	default:
		return FormEmpty
	}
}

// String returns a debug rendering of s.
func (s *Schema) String() string {
	return fmt.Sprintf("Schema{form=%s}", s.Form())
}

// FromValue builds a Schema from a decoded JSON value, which must be a
// JSON object ([*jvalue.Object]). Unrecognized keys and keyword values
// of the wrong shape are rejected with a [*SchemaError].
func FromValue(v jvalue.Value) (*Schema, error) {
	s, err := fromValue(v, nil)
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(err)
	}
	return s, nil
}

// fromValue is the unwrapped recursive worker behind FromValue. path
// is the schema-path-so-far, used only to annotate errors.
func fromValue(v jvalue.Value, path []string) (*Schema, error) {
	obj, ok := jvalue.IsObject(v)
	if !ok {
		return nil, &SchemaError{Kind: TypeMismatch, Path: path, Detail: "schema must be a JSON object"}
	}

	s := &Schema{}
	for _, key := range obj.Keys() {
		val, _ := obj.Get(key)
		if err := s.addKeyword(key, val, path); err != nil {
			return nil, err
		}
	}

	slog.Debug("schema.FromValue: parsed schema", "path", path, "form", s.Form())
	return s, nil
}

// addKeyword stores the value for a single recognized keyword on s,
// applying the recursive Schema conversions the keyword requires.
func (s *Schema) addKeyword(key string, val jvalue.Value, path []string) error {
	switch key {
	case keyMetadata:
		obj, ok := jvalue.IsObject(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: "metadata must be an object"}
		}
		s.Metadata = obj

	case keyNullable:
		b, ok := jvalue.IsBool(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: "nullable must be a boolean"}
		}
		s.Nullable = b

	case keyDefinitions:
		obj, ok := jvalue.IsObject(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: "definitions must be an object"}
		}
		defs := NewFields()
		for _, name := range obj.Keys() {
			dv, _ := obj.Get(name)
			sub, err := fromValue(dv, append(append([]string{}, path...), key, name))
			if err != nil {
				return err
			}
			defs.Set(name, sub)
		}
		s.Definitions = defs

	case keyRef:
		str, ok := jvalue.IsString(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: "ref must be a string"}
		}
		s.Ref = &str

	case keyType:
		str, ok := jvalue.IsString(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: "type must be a string"}
		}
		s.Type = str

	case keyEnum:
		arr, ok := jvalue.IsArray(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: "enum must be an array"}
		}
		vals := make([]string, 0, len(arr))
		for _, e := range arr {
			str, ok := jvalue.IsString(e)
			if !ok {
				return &SchemaError{Kind: InvalidEnum, Path: append(path, key), Detail: "enum values must be strings"}
			}
			vals = append(vals, str)
		}
		s.Enum = vals

	case keyElements:
		sub, err := fromValue(val, append(append([]string{}, path...), key))
		if err != nil {
			return err
		}
		s.Elements = sub

	case keyProperties, keyOptionalProperties, keyMapping:
		obj, ok := jvalue.IsObject(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: key + " must be an object"}
		}
		fields := NewFields()
		for _, name := range obj.Keys() {
			pv, _ := obj.Get(name)
			sub, err := fromValue(pv, append(append([]string{}, path...), key, name))
			if err != nil {
				return err
			}
			fields.Set(name, sub)
		}
		switch key {
		case keyProperties:
			s.Properties = fields
		case keyOptionalProperties:
			s.OptionalProperties = fields
		case keyMapping:
			s.Mapping = fields
		}

	case keyAdditionalProperties:
		b, ok := jvalue.IsBool(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: "additionalProperties must be a boolean"}
		}
		s.AdditionalProperties = &b

	case keyValues:
		sub, err := fromValue(val, append(append([]string{}, path...), key))
		if err != nil {
			return err
		}
		s.Values = sub

	case keyDiscriminator:
		str, ok := jvalue.IsString(val)
		if !ok {
			return &SchemaError{Kind: TypeMismatch, Path: append(path, key), Detail: "discriminator must be a string"}
		}
		s.Discriminator = &str

	default:
		return &SchemaError{Kind: IllegalKeyword, Path: append(path, key), Detail: fmt.Sprintf("unrecognized keyword %q", key)}
	}

	return nil
}

// hasAdditionalProperties reports whether "additionalProperties" was
// present on s, as opposed to defaulting to false. Because
// AdditionalProperties is a *bool (nil means "unset"), this is true for
// any Schema value with the field set, however it was constructed —
// not just ones built by FromValue.
func (s *Schema) hasAdditionalProperties() bool {
	return s.AdditionalProperties != nil
}

// AdditionalPropertiesValue reports the effective value of
// "additionalProperties", defaulting to false when unset.
func (s *Schema) AdditionalPropertiesValue() bool {
	return s.AdditionalProperties != nil && *s.AdditionalProperties
}
