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
	"testing"

	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"

	"github.com/symgraph/symgraph/symbol"
	"github.com/symgraph/symgraph/symbol/symboltest"
	"github.com/symgraph/symgraph/types/shapes"
)

var analyzer = symboltest.Analyzer{}

func TestGrad(t *testing.T) {
	exp := symboltest.NewOp("Exp", []string{"data"}, []string{"out"})
	x := symbol.Variable("x")
	out := symbol.FromOperator(exp).Call("out", x)

	grad, err := out.Grad(analyzer, "x")
	require.NoError(t, err)
	require.Equal(t, 1, grad.NumReturns())

	head := grad.Heads()[0].Source
	// The gradient head is a backward node referencing the forward operator
	// node; the forward node is shared by reference, not copied.
	require.NotNil(t, head.BackwardSource())
	require.Same(t, out.Heads()[0].Source, head.BackwardSource())
	require.Equal(t, "Exp", head.BackwardSource().Op().TypeString())

	// The backward node's inputs reach the head-gradient placeholder and
	// the original variable node.
	var variables []*symbol.Node
	grad.DFSVisit(func(node *symbol.Node) {
		if node.IsVariable() {
			variables = append(variables, node)
		}
	})
	require.Len(t, variables, 2)
	require.Same(t, x.Heads()[0].Source, variables[1])

	// The forward graph is untouched.
	require.Equal(t, []string{"x"}, out.ListArguments())
	require.Nil(t, out.Heads()[0].Source.BackwardSource())
}

func TestGradMultipleArguments(t *testing.T) {
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	out := symbol.FromOperator(addOp()).Call("z", x, y)

	grad, err := out.Grad(analyzer, "x", "y")
	require.NoError(t, err)
	require.Equal(t, 2, grad.NumReturns())
	// Both gradients come from the same backward node, at different output
	// slots (slot k = gradient w.r.t. forward input k).
	require.Same(t, grad.Heads()[0].Source, grad.Heads()[1].Source)
	require.Equal(t, 0, grad.Heads()[0].Index)
	require.Equal(t, 1, grad.Heads()[1].Index)
}

func TestGradAccumulatesFanOut(t *testing.T) {
	// out = Add(Mul(x, y), x): x contributes through two paths, so its
	// gradient is a sum node tied back to the variable.
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	prod := symbol.FromOperator(mulOp()).Call("prod", x, y)
	out := symbol.FromOperator(addOp()).Call("out", prod, x)

	grad, err := out.Grad(analyzer, "x")
	require.NoError(t, err)
	head := grad.Heads()[0].Source
	require.Equal(t, "x_grad_sum", head.Name())
	require.Same(t, x.Heads()[0].Source, head.BackwardSource())
	require.Len(t, head.Inputs(), 2)
}

func TestGradUnknownArgument(t *testing.T) {
	x := symbol.Variable("x")
	out := symbol.FromOperator(symboltest.NewOp("Exp", []string{"data"}, []string{"out"})).Call("out", x)

	_, err := out.Grad(analyzer, "z")
	require.Equal(t, symbol.ErrUnknownKeyword, symbol.KindOf(err))
	var symErr *symbol.Error
	require.ErrorAs(t, err, &symErr)
	require.Equal(t, []string{"z"}, symErr.Unmatched)
	// The diagnostic carries the real argument names.
	require.Equal(t, []string{"x"}, symErr.Candidates)
	require.ErrorContains(t, err, "x")
}

func TestInferShape(t *testing.T) {
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	out := symbol.FromOperator(addOp()).Call("z", x, y)

	shape := shapes.Make(dtypes.Float32, 2, 3)
	args, outs, ok, err := out.InferShape(analyzer, []shapes.Shape{shape, shape})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, args, 2)
	require.Len(t, outs, 1)
	require.True(t, outs[0].Equal(shape))

	_, _, _, err = out.InferShape(analyzer, []shapes.Shape{shape})
	require.Equal(t, symbol.ErrArityMismatch, symbol.KindOf(err))
}

func TestInferShapeMap(t *testing.T) {
	x := symbol.Variable("x")
	y := symbol.Variable("y")
	out := symbol.FromOperator(addOp()).Call("z", x, y)

	shape := shapes.Make(dtypes.Float32, 4)
	args, outs, ok, err := out.InferShapeMap(analyzer, map[string]shapes.Shape{"x": shape})
	require.NoError(t, err)
	// "y" stays unresolved, so inference reports failure but leaves the
	// partial results in place: the output still resolved through "x".
	require.False(t, ok)
	require.True(t, outs[0].Equal(shape))
	var unresolved int
	for _, arg := range args {
		if !arg.Ok() {
			unresolved++
		}
	}
	require.Equal(t, 1, unresolved)

	_, _, _, err = out.InferShapeMap(analyzer, map[string]shapes.Shape{"w": shape})
	require.Equal(t, symbol.ErrUnknownKeyword, symbol.KindOf(err))
	var symErr *symbol.Error
	require.ErrorAs(t, err, &symErr)
	require.Equal(t, []string{"w"}, symErr.Unmatched)
	require.Equal(t, []string{"x", "y"}, symErr.Candidates)
}
