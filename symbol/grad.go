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

// This file holds the analysis front ends: Grad and the two InferShape
// forms. The algorithms themselves (backward-pass synthesis, shape
// propagation) run behind static.Analyzer on the flattened graph; this side
// owns only argument marshalling, diagnostics, and -- for Grad -- the
// re-lifting of the augmented flat graph back into shared-node form.

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/symgraph/symgraph/static"
	"github.com/symgraph/symgraph/types"
	"github.com/symgraph/symgraph/types/shapes"
	"github.com/symgraph/symgraph/types/xslices"
)

// Grad builds the gradient graph of the receiver with respect to the named
// arguments: one head per name in wrt, in order, each the accumulated
// gradient of that argument.
//
// The receiver is lowered, the analyzer appends gradient nodes to the
// flattened graph, and the appended suffix is lifted back into Node form.
// Nodes of the forward graph are reused by reference: the returned symbol
// shares them with the receiver, and each synthesized backward node links
// to its forward source node. The receiver itself is never modified.
//
// A name in wrt that is not among ListArguments fails with an aggregate
// ErrUnknownKeyword diagnostic listing every unmatched name against the
// real argument list.
func (s *Symbol) Grad(analyzer static.Analyzer, wrt ...string) (*Symbol, error) {
	g := s.ToStaticGraph()
	numForward := g.NumNodes()
	_, argGrads, err := analyzer.MakeBackwardPass(g)
	if err != nil {
		return nil, errors.WithMessage(err, "Symbol.Grad: backward pass failed")
	}

	// Live shared references for the forward prefix, in id order: DFS
	// discovery order is exactly the id assignment of the lowering.
	nodes := make([]*Node, 0, g.NumNodes())
	s.DFSVisit(func(node *Node) {
		nodes = append(nodes, node)
	})
	// Re-lift the appended suffix as backward nodes. Inputs may address both
	// forward nodes and earlier appended nodes, so the table grows as we go.
	for id := numForward; id < g.NumNodes(); id++ {
		flat := &g.Nodes[id]
		gradNode := &Node{name: flat.Name}
		if flat.BackwardSourceId != static.InvalidNodeId {
			gradNode.backwardSource = nodes[flat.BackwardSourceId]
		}
		nodes = append(nodes, gradNode)
		for _, input := range flat.Inputs {
			gradNode.inputs = append(gradNode.inputs, DataEntry{Source: nodes[input.SourceId], Index: input.Index})
		}
	}

	argList := s.ListArguments()
	if err := keywordArgumentMismatch("Symbol.Grad", wrt, argList); err != nil {
		return nil, err
	}
	argIndex := make(map[string]int, len(argList))
	for ii, name := range argList {
		argIndex[name] = ii
	}
	grad := &Symbol{heads: make([]DataEntry, 0, len(wrt))}
	for _, name := range wrt {
		entry := argGrads[argIndex[name]]
		grad.heads = append(grad.heads, DataEntry{Source: nodes[entry.SourceId], Index: entry.Index})
	}
	klog.V(2).Infof("symbol: backward pass appended %d nodes for %d forward nodes", g.NumNodes()-numForward, numForward)
	return grad, nil
}

// InferShape runs shape inference with argument shapes given positionally,
// in ListArguments order. It returns the (possibly partially) resolved
// argument and output shape slices and whether inference fully resolved;
// unresolved entries are left invalid for the caller to inspect. The error
// is non-nil only for a wrong-length argShapes.
func (s *Symbol) InferShape(analyzer static.Analyzer, argShapes []shapes.Shape) (args, outs []shapes.Shape, ok bool, err error) {
	g := s.ToStaticGraph()
	if len(argShapes) != len(g.ArgNodes) {
		return nil, nil, false, errorf(ErrArityMismatch,
			"incorrect number of argument shapes: requires %d, provided %d", len(g.ArgNodes), len(argShapes))
	}
	args = xslices.Map(argShapes, shapes.Shape.Clone)
	outs = invalidShapes(len(g.Heads))
	ok = analyzer.InferShape(g, args, outs)
	return
}

// InferShapeMap runs shape inference with known argument shapes matched by
// name; arguments absent from known start out unresolved. A name that does
// not match any argument fails with the aggregate ErrUnknownKeyword
// diagnostic.
func (s *Symbol) InferShapeMap(analyzer static.Analyzer, known map[string]shapes.Shape) (args, outs []shapes.Shape, ok bool, err error) {
	g := s.ToStaticGraph()
	args = invalidShapes(len(g.ArgNodes))
	// Distinct keys, not argument nodes: several arguments may share a name
	// and all of them take the shape given for it.
	matched := types.MakeSet[string](len(known))
	for ii, id := range g.ArgNodes {
		if shape, found := known[g.Nodes[id].Name]; found {
			args[ii] = shape.Clone()
			matched.Insert(g.Nodes[id].Name)
		}
	}
	if len(matched) != len(known) {
		return nil, nil, false, keywordArgumentMismatch("Symbol.InferShape", xslices.SortedKeys(known), s.ListArguments())
	}
	outs = invalidShapes(len(g.Heads))
	ok = analyzer.InferShape(g, args, outs)
	return
}

func invalidShapes(n int) []shapes.Shape {
	out := make([]shapes.Shape, n)
	for ii := range out {
		out[ii] = shapes.Invalid()
	}
	return out
}
