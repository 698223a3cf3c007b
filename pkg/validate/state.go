// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package validate implements the JSON Type Definition (RFC 8927)
// instance validation algorithm: checking a decoded JSON value against
// a verified [schema.Schema] and producing an ordered list of
// validation errors.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/altshiftab/jtd/pkg/schema"
)

// Options controls a single call to [Validate].
type Options struct {
	// MaxDepth bounds the number of schema-token frames that may be
	// active at once (the root frame plus one per "ref" hop in flight),
	// guarding against infinitely recursive schemas: a "ref" hop taken
	// while MaxDepth frames are active fails with MaxDepthExceeded, so at
	// most MaxDepth-1 hops can be nested. Zero means unbounded.
	MaxDepth uint

	// MaxErrors stops validation once this many errors have been
	// collected. Zero means unbounded.
	MaxErrors uint
}

// ValidationError is a single instance/schema location pair describing
// one way in which an instance failed to conform to a schema.
type ValidationError struct {
	InstancePath []string
	SchemaPath   []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("instance #/%s does not satisfy schema #/%s",
		strings.Join(e.InstancePath, "/"), strings.Join(e.SchemaPath, "/"))
}

// MarshalJSON renders e the way jsontypedef's cross-language test
// suite expects: an object with "instancePath" and "schemaPath" array
// members, each an RFC 6901-unescaped list of tokens.
func (e *ValidationError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		InstancePath []string `json:"instancePath"`
		SchemaPath   []string `json:"schemaPath"`
	}{
		InstancePath: emptyIfNil(e.InstancePath),
		SchemaPath:   emptyIfNil(e.SchemaPath),
	})
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// FaultKind classifies a [ValidationFault].
type FaultKind string

// MaxDepthExceeded means the schema's chain of "ref" hops, applied to
// this instance, exceeded [Options.MaxDepth] — almost always because
// the schema's definitions are mutually recursive with no base case
// reachable by the instance at hand.
const MaxDepthExceeded FaultKind = "maxDepthExceeded"

// ValidationFault reports that validation could not run to completion,
// as distinct from the instance simply being invalid.
type ValidationFault struct {
	Kind FaultKind
}

// Error implements the error interface.
func (f *ValidationFault) Error() string {
	return string(f.Kind)
}

// maxErrorsReached is an internal sentinel used to unwind the
// recursive walk as soon as Options.MaxErrors is hit, without turning
// every validate* function into something that can panic. It never
// escapes [Validate].
type maxErrorsReached struct{}

func (maxErrorsReached) Error() string { return "max errors reached" }

// state carries the mutable bookkeeping threaded through one call to
// [Validate]: the two path stacks from spec.md §4.3 (the instance
// token stack, and a stack of schema-token frames that resets on every
// "ref" hop), the accumulated error list, and a counter of "ref" hops
// in flight. The max_depth fault is decided from the number of frames,
// not from that counter.
type state struct {
	root *schema.Schema
	opts Options

	instancePath []string
	schemaFrames [][]string // schemaFrames[len-1] is the active frame

	errs  []*ValidationError
	depth uint
}

func newState(root *schema.Schema, opts Options) *state {
	return &state{
		root:         root,
		opts:         opts,
		schemaFrames: [][]string{{}},
	}
}

// pushInstanceToken appends token to the instance path. The caller
// must defer the returned func to pop it.
func (st *state) pushInstanceToken(token string) func() {
	st.instancePath = append(st.instancePath, token)
	return func() {
		st.instancePath = st.instancePath[:len(st.instancePath)-1]
	}
}

// pushSchemaToken appends token to the active schema-token frame. The
// caller must defer the returned func to pop it.
func (st *state) pushSchemaToken(token string) func() {
	i := len(st.schemaFrames) - 1
	st.schemaFrames[i] = append(st.schemaFrames[i], token)
	return func() {
		st.schemaFrames[i] = st.schemaFrames[i][:len(st.schemaFrames[i])-1]
	}
}

// pushRefFrame starts a fresh schema-token frame, seeded with init, for
// the duration of a "ref" hop, and increments the depth counter. The
// caller must defer the returned func to pop the frame and decrement
// depth. It returns a [ValidationFault] if MaxDepth would be exceeded.
func (st *state) pushRefFrame(init ...string) (func(), error) {
	if st.opts.MaxDepth > 0 && uint(len(st.schemaFrames)) == st.opts.MaxDepth {
		return nil, &ValidationFault{Kind: MaxDepthExceeded}
	}
	st.depth++
	frame := append([]string{}, init...)
	st.schemaFrames = append(st.schemaFrames, frame)
	return func() {
		st.schemaFrames = st.schemaFrames[:len(st.schemaFrames)-1]
		st.depth--
	}, nil
}

// schemaPath returns the active frame, which is the schema path used
// in a [ValidationError] raised right now.
func (st *state) schemaPath() []string {
	return st.schemaFrames[len(st.schemaFrames)-1]
}

// addError records a validation error at the current instance and
// schema locations. It returns a maxErrorsReached sentinel once
// Options.MaxErrors has been hit, which callers must propagate.
func (st *state) addError() error {
	instPath := append([]string{}, st.instancePath...)
	schPath := append([]string{}, st.schemaPath()...)
	st.errs = append(st.errs, &ValidationError{InstancePath: instPath, SchemaPath: schPath})
	if st.opts.MaxErrors > 0 && uint(len(st.errs)) >= st.opts.MaxErrors {
		return maxErrorsReached{}
	}
	return nil
}
