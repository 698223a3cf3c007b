// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import (
	"errors"
	"log/slog"
	"math"
	"strconv"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"

	"github.com/altshiftab/jtd/pkg/jvalue"
	"github.com/altshiftab/jtd/pkg/schema"
)

// Validate walks instance against s, a verified schema, and returns
// every way in which instance fails to conform, in the order spec.md
// §4.3 produces them. A non-nil error means validation could not run
// to completion — currently only [*ValidationFault] — as distinct from
// instance simply being invalid, which is reported via the returned
// slice.
func Validate(s *schema.Schema, instance jvalue.Value, opts Options) ([]*ValidationError, error) {
	st := newState(s, opts)
	if err := validateNode(st, s, instance, ""); err != nil {
		var fault *ValidationFault
		if errors.As(err, &fault) {
			return nil, motmedelErrors.NewWithTrace(fault)
		}
		if !errors.As(err, new(maxErrorsReached)) {
			return nil, motmedelErrors.NewWithTrace(err)
		}
		// max_errors reached: fall through and return what was collected.
	}
	slog.Debug("validate.Validate: validation complete", "errorCount", len(st.errs))
	return st.errs, nil
}

// validateNode is the recursive walker. parentTag is the discriminator
// key name suppressed from the additionalProperties check when this
// call was reached via a discriminator hop into a mapping value; it is
// "" otherwise.
func validateNode(st *state, s *schema.Schema, instance jvalue.Value, parentTag string) error {
	if s.Nullable && jvalue.IsNull(instance) {
		return nil
	}

	switch s.Form() {
	case schema.FormEmpty:
		return nil
	case schema.FormRef:
		return validateRef(st, s, instance)
	case schema.FormType:
		return validateType(st, s, instance)
	case schema.FormEnum:
		return validateEnum(st, s, instance)
	case schema.FormElements:
		return validateElements(st, s, instance)
	case schema.FormProperties:
		return validateProperties(st, s, instance, parentTag)
	case schema.FormValues:
		return validateValues(st, s, instance)
	case schema.FormDiscriminator:
		return validateDiscriminator(st, s, instance)
	default:
		return nil
	}
}

func validateRef(st *state, s *schema.Schema, instance jvalue.Value) error {
	pop, err := st.pushRefFrame("definitions", *s.Ref)
	if err != nil {
		return err
	}
	defer pop()

	target, _ := st.root.Definitions.Get(*s.Ref)
	return validateNode(st, target, instance, "")
}

func validateType(st *state, s *schema.Schema, instance jvalue.Value) error {
	pop := st.pushSchemaToken("type")
	defer pop()

	if typeMatches(s.Type, instance) {
		return nil
	}
	return st.addError()
}

func typeMatches(tag string, instance jvalue.Value) bool {
	switch tag {
	case schema.TypeBoolean:
		_, ok := jvalue.IsBool(instance)
		return ok
	case schema.TypeString:
		_, ok := jvalue.IsString(instance)
		return ok
	case schema.TypeTimestamp:
		s, ok := jvalue.IsString(instance)
		return ok && isValidTimestamp(s)
	case schema.TypeFloat32, schema.TypeFloat64:
		_, ok := jvalue.IsNumber(instance)
		return ok
	case schema.TypeInt8:
		return integerInRange(instance, -128, 127)
	case schema.TypeUint8:
		return integerInRange(instance, 0, 255)
	case schema.TypeInt16:
		return integerInRange(instance, -32768, 32767)
	case schema.TypeUint16:
		return integerInRange(instance, 0, 65535)
	case schema.TypeInt32:
		return integerInRange(instance, -2147483648, 2147483647)
	case schema.TypeUint32:
		return integerInRange(instance, 0, 4294967295)
	default:
		return false
	}
}

// integerInRange reports whether instance is a JSON number that is
// mathematically an integer within [lo, hi].
func integerInRange(instance jvalue.Value, lo, hi float64) bool {
	f, ok := jvalue.IsNumber(instance)
	if !ok {
		return false
	}
	if math.Trunc(f) != f {
		return false
	}
	return f >= lo && f <= hi
}

func validateEnum(st *state, s *schema.Schema, instance jvalue.Value) error {
	pop := st.pushSchemaToken("enum")
	defer pop()

	str, ok := jvalue.IsString(instance)
	if ok {
		for _, v := range s.Enum {
			if v == str {
				return nil
			}
		}
	}
	return st.addError()
}

func validateElements(st *state, s *schema.Schema, instance jvalue.Value) error {
	pop := st.pushSchemaToken("elements")
	defer pop()

	arr, ok := jvalue.IsArray(instance)
	if !ok {
		return st.addError()
	}

	for i, elem := range arr {
		popTok := st.pushInstanceToken(strconv.Itoa(i))
		err := validateNode(st, s.Elements, elem, "")
		popTok()
		if err != nil {
			return err
		}
	}
	return nil
}

func validateProperties(st *state, s *schema.Schema, instance jvalue.Value, parentTag string) error {
	obj, ok := jvalue.IsObject(instance)
	if !ok {
		token := "optionalProperties"
		if s.Properties != nil {
			token = "properties"
		}
		pop := st.pushSchemaToken(token)
		defer pop()
		return st.addError()
	}

	if s.Properties != nil {
		pop := st.pushSchemaToken("properties")
		if err := validatePropertyMap(st, s.Properties, obj, true); err != nil {
			pop()
			return err
		}
		pop()
	}

	if s.OptionalProperties != nil {
		pop := st.pushSchemaToken("optionalProperties")
		if err := validatePropertyMap(st, s.OptionalProperties, obj, false); err != nil {
			pop()
			return err
		}
		pop()
	}

	if !s.AdditionalPropertiesValue() {
		for _, key := range obj.Keys() {
			if s.Properties != nil && s.Properties.Has(key) {
				continue
			}
			if s.OptionalProperties != nil && s.OptionalProperties.Has(key) {
				continue
			}
			if key == parentTag {
				continue
			}
			popTok := st.pushInstanceToken(key)
			err := st.addError()
			popTok()
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// validatePropertyMap walks fields in declared order, recursing into
// members present in obj and, when required, erroring on absent ones.
func validatePropertyMap(st *state, fields *schema.Fields, obj *jvalue.Object, required bool) error {
	for _, key := range fields.Keys() {
		sub, _ := fields.Get(key)
		popKey := st.pushSchemaToken(key)

		v, present := obj.Get(key)
		var err error
		if present {
			popTok := st.pushInstanceToken(key)
			err = validateNode(st, sub, v, "")
			popTok()
		} else if required {
			err = st.addError()
		}

		popKey()
		if err != nil {
			return err
		}
	}
	return nil
}

func validateValues(st *state, s *schema.Schema, instance jvalue.Value) error {
	pop := st.pushSchemaToken("values")
	defer pop()

	obj, ok := jvalue.IsObject(instance)
	if !ok {
		return st.addError()
	}

	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		popTok := st.pushInstanceToken(key)
		err := validateNode(st, s.Values, v, "")
		popTok()
		if err != nil {
			return err
		}
	}
	return nil
}

func validateDiscriminator(st *state, s *schema.Schema, instance jvalue.Value) error {
	obj, ok := jvalue.IsObject(instance)
	if !ok {
		pop := st.pushSchemaToken("discriminator")
		defer pop()
		return st.addError()
	}

	d := *s.Discriminator
	tv, present := obj.Get(d)
	if !present {
		pop := st.pushSchemaToken("discriminator")
		defer pop()
		return st.addError()
	}

	t, ok := jvalue.IsString(tv)
	if !ok {
		popTag := st.pushSchemaToken("discriminator")
		popTok := st.pushInstanceToken(d)
		err := st.addError()
		popTok()
		popTag()
		return err
	}

	mapped, ok := s.Mapping.Get(t)
	if !ok {
		popTag := st.pushSchemaToken("mapping")
		popTok := st.pushInstanceToken(d)
		err := st.addError()
		popTok()
		popTag()
		return err
	}

	popMapping := st.pushSchemaToken("mapping")
	popTagVal := st.pushSchemaToken(t)
	err := validateNode(st, mapped, instance, d)
	popTagVal()
	popMapping()
	return err
}
