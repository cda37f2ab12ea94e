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
	"github.com/pkg/errors"

	"github.com/symgraph/symgraph/types"
	"github.com/symgraph/symgraph/types/xslices"
)

// replacement is one staged edge rewrite: after a successful match the edge
// slot is overwritten with target. Plans are staged in full and applied only
// once the whole composition validated, so a failed composition never leaves
// the graph partially rewritten.
type replacement struct {
	edge   *DataEntry
	target DataEntry
}

// checkComposable validates the shared receiver precondition of both
// composition forms: exactly one head, and not a bare variable. On success
// it assigns name to the head node.
//
// The name assignment happens before argument validation and is not rolled
// back if validation later fails; see the package notes on composition.
func (s *Symbol) checkComposable(name string) error {
	if s.NumReturns() != 1 {
		return errorf(ErrNonScalarReceiver, "only a single-output symbol can be composed, receiver has %d returns", s.NumReturns())
	}
	if s.heads[0].Source.IsVariable() {
		return errorf(ErrNonScalarReceiver, "a variable cannot be composed")
	}
	s.heads[0].Source.name = name
	return nil
}

// Compose binds the receiver's free arguments positionally to args,
// mutating the receiver in place, and names the receiver's head node after
// name. The receiver must be exclusively owned by the caller -- usually it
// is a fresh Copy; Apply packages that convention.
//
// Every argument must be a single-head symbol. For an atomic template the
// number of arguments must equal the operator's declared argument count;
// otherwise it must equal the number of distinct free-variable nodes in the
// graph, with all edges to the same variable node receiving the same
// argument.
func (s *Symbol) Compose(args []*Symbol, name string) error {
	if err := s.checkComposable(name); err != nil {
		return err
	}
	for ii, arg := range args {
		if arg.NumReturns() != 1 {
			return errorf(ErrTupleArgument, "argument %d is a tuple with %d outputs, scalar is required", ii, arg.NumReturns())
		}
	}
	head := s.heads[0].Source
	if s.isAtomic() {
		requiredArgs := head.op.ListArguments()
		if len(args) != len(requiredArgs) {
			return errorf(ErrArityMismatch, "incorrect number of arguments: %s requires %d, provided %d",
				head.op.TypeString(), len(requiredArgs), len(args))
		}
		head.inputs = make([]DataEntry, len(args))
		for ii, arg := range args {
			head.inputs[ii] = arg.heads[0]
		}
		return nil
	}
	// Non-atomic: every edge to a free variable takes the next unconsumed
	// argument; edges sharing a variable node share the argument and consume
	// a single slot.
	argCounter := 0
	replaceMap := make(map[*Node]DataEntry)
	var plan []replacement
	s.DFSVisit(func(node *Node) {
		for ii := range node.inputs {
			edge := &node.inputs[ii]
			if !edge.Source.IsVariable() {
				continue
			}
			target, seen := replaceMap[edge.Source]
			if !seen {
				if argCounter < len(args) {
					target = args[argCounter].heads[0]
					replaceMap[edge.Source] = target
				}
				argCounter++
			}
			plan = append(plan, replacement{edge: edge, target: target})
		}
	})
	if argCounter != len(args) {
		return errorf(ErrArityMismatch, "incorrect number of arguments: requires %d, provided %d", argCounter, len(args))
	}
	for _, r := range plan {
		*r.edge = r.target
	}
	return nil
}

// ComposeKeywords binds the receiver's free arguments by name, mutating the
// receiver in place, and names the receiver's head node after name. Like
// Compose, the receiver must be exclusively owned by the caller.
//
// For an atomic template, declared arguments missing from kwargs are filled
// with freshly synthesized variable placeholders, named "<arg>" or
// "<name>_<arg>" when name is non-empty. For a composite graph, keyword
// binding requires every free-variable name to identify a unique node
// (ErrAmbiguousName otherwise). The staged rewrite is applied only if every
// keyword matched; otherwise nothing is applied and the aggregate
// ErrUnknownKeyword diagnostic lists all unmatched keys against the full
// candidate list.
func (s *Symbol) ComposeKeywords(kwargs map[string]*Symbol, name string) error {
	if err := s.checkComposable(name); err != nil {
		return err
	}
	for _, key := range xslices.SortedKeys(kwargs) {
		if kwargs[key].NumReturns() != 1 {
			return errorf(ErrTupleArgument, "keyword argument %q is a tuple with %d outputs, scalar is required", key, kwargs[key].NumReturns())
		}
	}
	head := s.heads[0].Source
	matched := 0
	if s.isAtomic() {
		requiredArgs := head.op.ListArguments()
		head.inputs = make([]DataEntry, len(requiredArgs))
		for ii, requiredArg := range requiredArgs {
			if arg, ok := kwargs[requiredArg]; ok {
				head.inputs[ii] = arg.heads[0]
				matched++
				continue
			}
			placeholder := requiredArg
			if name != "" {
				placeholder = name + "_" + requiredArg
			}
			head.inputs[ii] = DataEntry{Source: &Node{name: placeholder}}
		}
		if matched != len(kwargs) {
			head.inputs = nil // roll the binding back before reporting
			return keywordArgumentMismatch("Symbol.ComposeKeywords", xslices.SortedKeys(kwargs), requiredArgs)
		}
		return nil
	}
	counts, maxDup := s.FindDuplicateArgs()
	if maxDup > 1 {
		var dups []string
		for _, argName := range xslices.SortedKeys(counts) {
			if counts[argName] > 1 {
				dups = append(dups, argName)
			}
		}
		return errorf(ErrAmbiguousName,
			"keyword composition is not supported on this graph: argument names %v each name more than one variable node", dups)
	}
	seen := types.MakeSet[*Node]()
	var plan []replacement
	s.DFSVisit(func(node *Node) {
		for ii := range node.inputs {
			edge := &node.inputs[ii]
			if !edge.Source.IsVariable() {
				continue
			}
			arg, ok := kwargs[edge.Source.name]
			if !ok {
				continue
			}
			// An argument referenced from several edges counts once toward
			// the match total.
			if !seen.Has(edge.Source) {
				seen.Insert(edge.Source)
				matched++
			}
			plan = append(plan, replacement{edge: edge, target: arg.heads[0]})
		}
	})
	if matched != len(kwargs) {
		return keywordArgumentMismatch("Symbol.ComposeKeywords", xslices.SortedKeys(kwargs), s.ListArguments())
	}
	for _, r := range plan {
		*r.edge = r.target
	}
	return nil
}

// Apply is the functional form of Compose: it clones the receiver, composes
// the clone with args and returns it. The receiver is never mutated.
func (s *Symbol) Apply(name string, args ...*Symbol) (*Symbol, error) {
	applied := s.Copy()
	if err := applied.Compose(args, name); err != nil {
		return nil, err
	}
	return applied, nil
}

// ApplyKeywords is the functional form of ComposeKeywords: clone, compose
// by name, return the clone. The receiver is never mutated.
func (s *Symbol) ApplyKeywords(name string, kwargs map[string]*Symbol) (*Symbol, error) {
	applied := s.Copy()
	if err := applied.ComposeKeywords(kwargs, name); err != nil {
		return nil, err
	}
	return applied, nil
}

// Call is Apply for contexts where an error return is unwelcome (tests,
// notebooks); it panics on composition failure.
func (s *Symbol) Call(name string, args ...*Symbol) *Symbol {
	applied, err := s.Apply(name, args...)
	if err != nil {
		panic(errors.WithMessagef(err, "Symbol.Call(%q)", name))
	}
	return applied
}

// CallKeywords is ApplyKeywords for contexts where an error return is
// unwelcome; it panics on composition failure.
func (s *Symbol) CallKeywords(name string, kwargs map[string]*Symbol) *Symbol {
	applied, err := s.ApplyKeywords(name, kwargs)
	if err != nil {
		panic(errors.WithMessagef(err, "Symbol.CallKeywords(%q)", name))
	}
	return applied
}
