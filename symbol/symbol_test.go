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

package symbol_test

import (
	"strings"
	"testing"

	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph/symbol"
	"github.com/symgraph/symgraph/symbol/symboltest"
)

func addOp() *symboltest.Op {
	return symboltest.NewOp("Add", []string{"lhs", "rhs"}, []string{"out"})
}

func mulOp() *symboltest.Op {
	return symboltest.NewOp("Mul", []string{"lhs", "rhs"}, []string{"out"})
}

func fcOp() *symboltest.Op {
	return symboltest.NewOp("FullyConnected", []string{"data", "weight", "bias"}, []string{"out"})
}

func TestVariable(t *testing.T) {
	x := symbol.Variable("x")
	require.Equal(t, 1, x.NumReturns())
	require.True(t, x.Heads()[0].Source.IsVariable())
	require.Equal(t, []string{"x"}, x.ListReturns())
}

func TestFromOperator(t *testing.T) {
	fc := symbol.FromOperator(fcOp())
	require.Equal(t, 1, fc.NumReturns())
	require.Equal(t, []string{"data", "weight", "bias"}, fc.ListArguments())
	require.Equal(t, []string{"out"}, fc.ListReturns())

	multi := symbol.FromOperator(symboltest.NewOp("BatchNorm",
		[]string{"data"}, []string{"out", "mean", "var"}).WithVisibleReturns(2))
	require.Equal(t, 2, multi.NumReturns())

	require.Panics(t, func() { symbol.FromOperator(nil) })
}

func TestGroupAndOutput(t *testing.T) {
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	grouped := symbol.Group(x, y)
	require.Equal(t, 2, grouped.NumReturns())
	require.Equal(t, []string{"x", "y"}, grouped.ListReturns())

	second := must.M1(grouped.Output(1))
	require.Equal(t, 1, second.NumReturns())
	require.Equal(t, []string{"y"}, second.ListReturns())
	// Nodes are shared, not copied.
	require.Same(t, y.Heads()[0].Source, second.Heads()[0].Source)

	// A single-return symbol is its own output 0.
	require.Same(t, x, must.M1(x.Output(0)))

	_, err := grouped.Output(2)
	require.Equal(t, symbol.ErrInvalidOutput, symbol.KindOf(err))
	_, err = grouped.Output(-1)
	require.Equal(t, symbol.ErrInvalidOutput, symbol.KindOf(err))
}

func TestDFSVisitOrder(t *testing.T) {
	// Diamond: out = Add(Mul(x, y), x) -- x is shared.
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	prod := symbol.FromOperator(mulOp()).Call("prod", x, y)
	out := symbol.FromOperator(addOp()).Call("out", prod, x)

	var names []string
	seen := make(map[*symbol.Node]int)
	out.DFSVisit(func(node *symbol.Node) {
		names = append(names, node.Name())
		seen[node]++
	})
	// Pre-order: head first, then descendants; "x" is discovered as an
	// input of "out" but, being shared, surfaces only once, after "y".
	require.Equal(t, []string{"out", "prod", "y", "x"}, names)
	for node, count := range seen {
		require.Equalf(t, 1, count, "node %q visited %d times", node.Name(), count)
	}

	// Deterministic: a second traversal yields the same sequence.
	var names2 []string
	out.DFSVisit(func(node *symbol.Node) { names2 = append(names2, node.Name()) })
	require.Equal(t, names, names2)
}

func TestListArguments(t *testing.T) {
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	out := symbol.FromOperator(addOp()).Call("out", x, y)
	require.Equal(t, []string{"x", "y"}, out.ListArguments())

	// Duplicate names are included, one entry per distinct node.
	x2 := symbol.Variable("x")
	dup := symbol.FromOperator(addOp()).Call("dup", x, x2)
	require.Equal(t, []string{"x", "x"}, dup.ListArguments())
}

func TestListReturns(t *testing.T) {
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	named := symbol.FromOperator(addOp()).Call("sum", x, y)
	require.Equal(t, []string{"sum_out"}, named.ListReturns())

	anonymous := symbol.FromOperator(addOp()).Call("", x, y)
	require.Equal(t, []string{"out"}, anonymous.ListReturns())
}

func TestFindDuplicateArgs(t *testing.T) {
	x := symbol.Variable("x")

	// Two edges to the same variable node: one underlying node.
	shared := symbol.FromOperator(mulOp()).Call("sq", x, x)
	counts, maxDup := shared.FindDuplicateArgs()
	require.Equal(t, map[string]int{"x": 1}, counts)
	require.Equal(t, 1, maxDup)

	// Two independent variables with the same name: two nodes.
	clash := symbol.FromOperator(mulOp()).Call("clash", symbol.Variable("x"), symbol.Variable("x"))
	counts, maxDup = clash.FindDuplicateArgs()
	require.Equal(t, map[string]int{"x": 2}, counts)
	require.Equal(t, 2, maxDup)
}

func TestCopy(t *testing.T) {
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	prod := symbol.FromOperator(mulOp()).Call("prod", x, y)
	out := symbol.FromOperator(addOp()).Call("out", prod, x)

	clone := out.Copy()

	// Structurally equal: same heads, same DFS name sequence, same returns.
	require.Equal(t, out.NumReturns(), clone.NumReturns())
	require.Equal(t, out.ListArguments(), clone.ListArguments())
	require.Equal(t, out.ListReturns(), clone.ListReturns())
	var wantNames, gotNames []string
	out.DFSVisit(func(node *symbol.Node) { wantNames = append(wantNames, node.Name()) })
	clone.DFSVisit(func(node *symbol.Node) { gotNames = append(gotNames, node.Name()) })
	require.Equal(t, wantNames, gotNames)

	// No node identity is shared.
	originals := make(map[*symbol.Node]bool)
	out.DFSVisit(func(node *symbol.Node) { originals[node] = true })
	clone.DFSVisit(func(node *symbol.Node) {
		require.Falsef(t, originals[node], "clone shares node %q with the original", node.Name())
	})

	// Sharing topology is preserved: the two edges to "x" map to a single
	// clone node.
	var cloneVars []*symbol.Node
	clone.DFSVisit(func(node *symbol.Node) {
		if node.IsVariable() {
			cloneVars = append(cloneVars, node)
		}
	})
	require.Len(t, cloneVars, 2)

	// Composing the clone leaves the original untouched. Positional slots
	// are consumed in edge order (out's own edge to "x" comes first), while
	// ListArguments follows node visit order, where the shared "x" -- now
	// "a" -- surfaces last.
	require.NoError(t, clone.Compose([]*symbol.Symbol{symbol.Variable("a"), symbol.Variable("b")}, "bound"))
	require.Equal(t, []string{"y", "x"}, out.ListArguments())
	require.Equal(t, []string{"b", "a"}, clone.ListArguments())
}

func TestPrint(t *testing.T) {
	atomic := symbol.FromOperator(addOp())
	dump := atomic.String()
	require.Contains(t, dump, "AtomicFunction Type:Add")
	require.Contains(t, dump, "arg[0]=lhs")
	require.Contains(t, dump, "arg[1]=rhs")

	x := symbol.Variable("x")
	y := symbol.Variable("y")
	out := symbol.FromOperator(addOp()).Call("sum", x, y)
	dump = out.String()
	require.True(t, strings.HasPrefix(dump, "Outputs:\n"))
	require.Contains(t, dump, "output[0]=sum(0)")
	require.Contains(t, dump, "Name:sum Type:Add")
	require.Contains(t, dump, "Variable:x")
	require.Contains(t, dump, "Variable:y")
}
