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

// Package symbol implements the symbolic computation graph: a DAG of
// operator applications over named variable placeholders, with functional
// composition, structural cloning, gradient-graph construction and lowering
// to the flattened form consumed by analysis passes.
//
// The main elements of the package are:
//
//   - Symbol: the user-facing graph value, a list of designated outputs
//     ("heads") over the node DAG. Created with Variable, FromOperator or
//     Group, and grown by composition.
//
//   - Node / DataEntry: the graph vertices and edges. Nodes are shared by
//     pointer; identity matters (two edges to the same *Node mean the same
//     value is used twice, not that two equal values exist).
//
//   - Composition: binding a symbol's free variables to other symbols'
//     outputs, positionally (Compose) or by name (ComposeKeywords). The
//     mutating forms require the caller to own the receiver exclusively;
//     Apply/ApplyKeywords are the clone-then-compose forms that never
//     mutate the callee.
//
//   - Lowering and analysis: ToStaticGraph flattens the pointer DAG into
//     the index-addressed static.Graph; Grad and the InferShape front ends
//     delegate to a static.Analyzer on that form and lift results back.
//
// ## Error handling
//
// All user-level failures are value errors of type *Error, tagged with an
// ErrorKind and, for name mismatches, the full candidate list (see
// errors.go). Panics (via gomlx/exceptions) are reserved for API misuse,
// like passing a nil operator to FromOperator.
//
// ## Concurrency
//
// A Symbol and every Node reachable from it must be accessed by one
// goroutine at a time. Symbols that share nodes (e.g. one was composed from
// the other) are a single unit for this purpose; use Copy to get a
// structurally independent graph before concurrent use.
package symbol

import (
	"fmt"
	"io"
	"strings"

	"github.com/gomlx/exceptions"

	"github.com/symgraph/symgraph/op"
	"github.com/symgraph/symgraph/types"
	"github.com/symgraph/symgraph/types/xslices"
)

// Symbol is a symbolic computation graph: an ordered list of heads (the
// designated outputs) over a DAG of shared nodes.
//
// A single-head Symbol is a scalar-valued expression; a multi-head Symbol
// is a tuple-valued result, e.g. a multi-output operator or a Group.
type Symbol struct {
	heads []DataEntry
}

// Variable creates a symbol holding a single named placeholder node.
func Variable(name string) *Symbol {
	return &Symbol{heads: []DataEntry{{Source: &Node{name: name}}}}
}

// FromOperator creates a symbol wrapping an operator descriptor as an
// atomic template: a single operator node with no inputs bound yet, with
// one head per visible return of the operator.
//
// It panics on a nil operator.
func FromOperator(operator op.Operator) *Symbol {
	if operator == nil {
		exceptions.Panicf("symbol.FromOperator: nil operator")
	}
	node := &Node{op: operator}
	numReturns := operator.NumVisibleReturns()
	s := &Symbol{heads: make([]DataEntry, 0, numReturns)}
	for index := 0; index < numReturns; index++ {
		s.heads = append(s.heads, DataEntry{Source: node, Index: index})
	}
	return s
}

// Group creates a tuple-valued symbol by concatenating the heads of the
// given symbols, in order. Nodes are shared, not copied.
func Group(symbols ...*Symbol) *Symbol {
	grouped := &Symbol{}
	for _, sym := range symbols {
		grouped.heads = append(grouped.heads, sym.heads...)
	}
	return grouped
}

// NumReturns is the number of heads (outputs) of the symbol.
func (s *Symbol) NumReturns() int { return len(s.heads) }

// Heads returns the symbol's output edges. The returned slice is the
// symbol's own; callers must not modify it.
func (s *Symbol) Heads() []DataEntry { return s.heads }

// Output returns a single-head view of output index. If the symbol has
// exactly one return it returns the receiver itself. The returned symbol
// shares nodes with the receiver.
func (s *Symbol) Output(index int) (*Symbol, error) {
	if index < 0 || index >= s.NumReturns() {
		return nil, errorf(ErrInvalidOutput, "output index %d out of range: symbol has %d returns", index, s.NumReturns())
	}
	if s.NumReturns() == 1 {
		return s, nil
	}
	return &Symbol{heads: []DataEntry{s.heads[index]}}, nil
}

// isAtomic returns whether the symbol is a bare operator template: exactly
// one head whose node is an operator with no inputs bound.
func (s *Symbol) isAtomic() bool {
	return len(s.heads) == 1 && s.heads[0].Source.isAtomic()
}

// DFSVisit calls visit exactly once for every node reachable from the
// symbol's heads, in deterministic pre-order: heads in head order, inputs
// in input order, each node visited the first time it is discovered.
// Identity (the *Node pointer), not value equality, decides whether a node
// was already seen. Traversal follows only input edges; backward-source
// links are a lookup relation and are not followed.
func (s *Symbol) DFSVisit(visit func(node *Node)) {
	visited := types.MakeSet[*Node](len(s.heads))
	seeds := make([]*Node, 0, len(s.heads))
	for _, head := range s.heads {
		if !visited.Has(head.Source) {
			visited.Insert(head.Source)
			seeds = append(seeds, head.Source)
		}
	}
	// Seeds go on the stack reversed so heads are visited in head order.
	stack := make([]*Node, 0, len(seeds))
	for ii := len(seeds) - 1; ii >= 0; ii-- {
		stack = append(stack, seeds[ii])
	}
	for len(stack) > 0 {
		node := xslices.Last(stack)
		stack = stack[:len(stack)-1]
		visit(node)
		// Push inputs in reverse: the stack inverts order again, so inputs
		// are discovered in their original order.
		for ii := len(node.inputs) - 1; ii >= 0; ii-- {
			source := node.inputs[ii].Source
			if !visited.Has(source) {
				visited.Insert(source)
				stack = append(stack, source)
			}
		}
	}
}

// ListArguments returns the names of the symbol's free arguments. For an
// atomic template these are the operator's declared argument names, in
// positional binding order; otherwise the names of all variable nodes in
// DFS-discovery order, duplicates included.
func (s *Symbol) ListArguments() []string {
	if s.isAtomic() {
		return s.heads[0].Source.op.ListArguments()
	}
	var args []string
	s.DFSVisit(func(node *Node) {
		if node.IsVariable() {
			args = append(args, node.name)
		}
	})
	return args
}

// ListReturns returns the output names, one per head. A head on a variable
// node is named after the variable; a head on an operator node gets the
// operator's declared return name for that slot, prefixed with the node's
// own name and '_' when the node is named.
func (s *Symbol) ListReturns() []string {
	returns := make([]string, 0, len(s.heads))
	for _, head := range s.heads {
		node := head.Source
		if node.op == nil {
			returns = append(returns, node.name)
			continue
		}
		name := node.op.ListReturns()[head.Index]
		if node.name != "" {
			name = node.name + "_" + name
		}
		returns = append(returns, name)
	}
	return returns
}

// FindDuplicateArgs tallies, per variable name, how many distinct variable
// nodes carry that name (one count per node, regardless of how many edges
// reference it), and returns the tally map together with the maximum count.
// A maximum above 1 means keyword composition cannot target this graph.
func (s *Symbol) FindDuplicateArgs() (counts map[string]int, maxDup int) {
	counts = make(map[string]int)
	maxDup = 1
	s.DFSVisit(func(node *Node) {
		if !node.IsVariable() {
			return
		}
		counts[node.name]++
		if counts[node.name] > maxDup {
			maxDup = counts[node.name]
		}
	})
	return
}

// Copy performs a full structural deep copy: every reachable node is
// cloned (operator descriptors duplicated through Operator.Copy), sharing
// topology is preserved exactly, and the clone shares no node with the
// receiver. Mutating one side after the copy never affects the other.
func (s *Symbol) Copy() *Symbol {
	oldToNew := make(map[*Node]*Node)
	var order []*Node
	s.DFSVisit(func(node *Node) {
		clone := &Node{name: node.name}
		if node.op != nil {
			clone.op = node.op.Copy()
		}
		oldToNew[node] = clone
		order = append(order, node)
	})
	// Second pass: rewire edges through the identity map, so shared sources
	// stay shared in the clone.
	for _, node := range order {
		clone := oldToNew[node]
		if node.backwardSource != nil {
			if mapped, ok := oldToNew[node.backwardSource]; ok {
				clone.backwardSource = mapped
			} else {
				clone.backwardSource = node.backwardSource
			}
		}
		if len(node.inputs) == 0 {
			continue
		}
		clone.inputs = make([]DataEntry, 0, len(node.inputs))
		for _, input := range node.inputs {
			clone.inputs = append(clone.inputs, DataEntry{Source: oldToNew[input.Source], Index: input.Index})
		}
	}
	copied := &Symbol{heads: make([]DataEntry, 0, len(s.heads))}
	for _, head := range s.heads {
		copied.heads = append(copied.heads, DataEntry{Source: oldToNew[head.Source], Index: head.Index})
	}
	return copied
}

// Print writes a human-oriented dump of the graph structure to w. It is a
// debugging aid, not a parseable format.
func (s *Symbol) Print(w io.Writer) {
	if s.isAtomic() {
		fmt.Fprintf(w, "AtomicFunction Type:%s\nInputs:\n", s.heads[0].Source.op.TypeString())
		for ii, arg := range s.ListArguments() {
			fmt.Fprintf(w, "\targ[%d]=%s\n", ii, arg)
		}
		return
	}
	fmt.Fprintf(w, "Outputs:\n")
	for ii, head := range s.heads {
		fmt.Fprintf(w, "\toutput[%d]=%s(%d)\n", ii, head.Source.name, head.Index)
	}
	s.DFSVisit(func(node *Node) {
		if node.IsVariable() {
			fmt.Fprintf(w, "Variable:%s\n", node.name)
			return
		}
		fmt.Fprintf(w, "Name:%s Type:%s\nInputs:\n", node.name, node.typeString())
		for ii, input := range node.inputs {
			fmt.Fprintf(w, "\targ[%d]=%s(%d)\n", ii, input.Source.name, input.Index)
		}
	})
}

// String implements fmt.Stringer with the Print dump.
func (s *Symbol) String() string {
	var b strings.Builder
	s.Print(&b)
	return b.String()
}
