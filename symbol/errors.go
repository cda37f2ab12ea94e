/*
 *	Copyright 2025 The SymGraph Authors
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package symbol

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/symgraph/symgraph/types"
)

// ErrorKind classifies the failure modes of graph composition, gradient
// requests and shape-inference argument marshalling.
type ErrorKind int

//go:generate enumer -type=ErrorKind -trimprefix=Err errors.go

const (
	// ErrNone is the zero kind, reported by KindOf for errors that did not
	// originate in this package.
	ErrNone ErrorKind = iota

	// ErrArityMismatch: positional composition (or positional shape
	// inference) received the wrong number of arguments.
	ErrArityMismatch

	// ErrTupleArgument: an argument symbol has more than one head where a
	// scalar (single-head) symbol is required.
	ErrTupleArgument

	// ErrAmbiguousName: keyword composition attempted against a graph in
	// which several distinct variable nodes share a name.
	ErrAmbiguousName

	// ErrUnknownKeyword: a supplied keyword, or a requested gradient or
	// shape name, is not among the candidate argument names. The Error
	// carries the full candidate list.
	ErrUnknownKeyword

	// ErrNonScalarReceiver: composition attempted on a multi-head symbol or
	// on a bare variable.
	ErrNonScalarReceiver

	// ErrInvalidOutput: Output received an index out of range.
	ErrInvalidOutput
)

// Error is the error value returned by all fallible Symbol operations. It
// wraps a stack-carrying error (github.com/pkg/errors) and tags it with an
// ErrorKind; name-mismatch errors additionally carry the structured
// diagnostic payload, so callers can report or recover programmatically
// instead of parsing messages.
type Error struct {
	kind ErrorKind

	// Candidates is the full candidate argument-name list, set for
	// ErrUnknownKeyword errors.
	Candidates []string

	// Unmatched lists every user-supplied name absent from Candidates. All
	// mismatches are collected before failing, never just the first.
	Unmatched []string

	err error
}

// Kind of the error.
func (e *Error) Kind() ErrorKind { return e.kind }

// Error implements the error interface.
func (e *Error) Error() string { return e.err.Error() }

// Unwrap returns the wrapped error, with its stack trace.
func (e *Error) Unwrap() error { return e.err }

// KindOf returns the ErrorKind of err, or ErrNone if err is nil or was not
// produced by this package.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return ErrNone
}

// errorf creates an *Error of the given kind with a stack trace attached.
func errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{kind: kind, err: errors.Errorf(format, args...)}
}

// keywordArgumentMismatch builds the aggregate ErrUnknownKeyword diagnostic:
// every user-supplied name missing from candidates is reported together,
// with the full candidate list attached. Returns nil if all names match.
func keywordArgumentMismatch(source string, userArgs, candidates []string) error {
	known := types.SetWith(candidates...)
	var unmatched []string
	var merr error
	for _, key := range userArgs {
		if !known.Has(key) {
			unmatched = append(unmatched, key)
			merr = multierr.Append(merr, errors.Errorf("%s: keyword argument name %q not found", source, key))
		}
	}
	if merr == nil {
		return nil
	}
	var msg strings.Builder
	msg.WriteString("candidate arguments:")
	for i, name := range candidates {
		fmt.Fprintf(&msg, "\n\t[%d]%s", i, name)
	}
	return &Error{
		kind:       ErrUnknownKeyword,
		Candidates: slices.Clone(candidates),
		Unmatched:  unmatched,
		err:        errors.WithMessage(merr, msg.String()),
	}
}
