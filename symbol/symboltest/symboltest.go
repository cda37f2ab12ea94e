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

// Package symboltest holds test utilities for packages that depend on the
// symbol package: a trivial op.Operator implementation, and a reference
// static.Analyzer just good enough to exercise the Grad and InferShape
// front ends in tests.
//
// The reference analyzer is intentionally naive: it treats every operator
// as elementwise (output shape = first input shape) and synthesizes one
// backward node per forward operator node. It is not a substitute for a
// real analysis engine.
package symboltest

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/symgraph/symgraph/op"
	"github.com/symgraph/symgraph/static"
	"github.com/symgraph/symgraph/types/shapes"
)

// Op is a minimal operator descriptor for tests.
type Op struct {
	typeName string
	args     []string
	returns  []string
	visible  int
}

var _ op.Operator = (*Op)(nil)

// NewOp creates a test operator with the given display type, argument names
// and return names; all returns are visible.
func NewOp(typeName string, args, returns []string) *Op {
	return &Op{typeName: typeName, args: args, returns: returns, visible: len(returns)}
}

// WithVisibleReturns limits how many returns are exposed as heads.
func (o *Op) WithVisibleReturns(n int) *Op {
	o.visible = n
	return o
}

// Copy implements op.Operator.
func (o *Op) Copy() op.Operator {
	return &Op{
		typeName: o.typeName,
		args:     slices.Clone(o.args),
		returns:  slices.Clone(o.returns),
		visible:  o.visible,
	}
}

// TypeString implements op.Operator.
func (o *Op) TypeString() string { return o.typeName }

// ListArguments implements op.Operator.
func (o *Op) ListArguments() []string { return o.args }

// ListReturns implements op.Operator.
func (o *Op) ListReturns() []string { return o.returns }

// NumVisibleReturns implements op.Operator.
func (o *Op) NumVisibleReturns() int { return o.visible }

// Analyzer is the reference static.Analyzer for tests.
type Analyzer struct{}

var _ static.Analyzer = Analyzer{}

// InferShape implements static.Analyzer with the elementwise rule: an
// operator node's shape is its first input's shape. Forward propagation
// only, iterated to a fixed point; returns false if any argument or output
// shape stays unresolved.
func (Analyzer) InferShape(g *static.Graph, argShapes, outShapes []shapes.Shape) bool {
	nodeShapes := make([]shapes.Shape, len(g.Nodes))
	for ii := range nodeShapes {
		nodeShapes[ii] = shapes.Invalid()
	}
	for ii, id := range g.ArgNodes {
		nodeShapes[id] = argShapes[ii].Clone()
	}
	for changed := true; changed; {
		changed = false
		for id := range g.Nodes {
			node := &g.Nodes[id]
			if node.Op == nil || nodeShapes[id].Ok() || len(node.Inputs) == 0 {
				continue
			}
			first := nodeShapes[node.Inputs[0].SourceId]
			if first.Ok() {
				nodeShapes[id] = first.Clone()
				changed = true
			}
		}
	}
	resolved := true
	for ii, id := range g.ArgNodes {
		argShapes[ii] = nodeShapes[id].Clone()
		resolved = resolved && argShapes[ii].Ok()
	}
	for ii, head := range g.Heads {
		outShapes[ii] = nodeShapes[head.SourceId].Clone()
		resolved = resolved && outShapes[ii].Ok()
	}
	return resolved
}

// MakeBackwardPass implements static.Analyzer. For every head it appends a
// head-gradient placeholder (a variable in the lifted graph), then walks
// the forward nodes in reverse-topological order appending one backward
// node per operator node, each referencing its forward source through
// BackwardSourceId. Output slot k of a backward node is the gradient with
// respect to forward input k. Fan-out gradients are accumulated through a
// sum node.
func (Analyzer) MakeBackwardPass(g *static.Graph) (headGrads []static.NodeId, argGrads []static.DataEntry, err error) {
	numForward := len(g.Nodes)
	if numForward == 0 {
		return nil, nil, errors.New("cannot build a backward pass for an empty graph")
	}
	// A forward node's gradient is final once every consumer (plus the head
	// list, for head nodes) has pushed its contribution. DFS-discovery ids
	// are not a topological order under sharing, so readiness is tracked by
	// contribution counts.
	expected := make([]int, numForward)
	for id := 0; id < numForward; id++ {
		for _, input := range g.Nodes[id].Inputs {
			expected[input.SourceId]++
		}
	}
	for _, head := range g.Heads {
		expected[head.SourceId]++
	}

	gradOf := make(map[static.NodeId]static.DataEntry)
	received := make([]int, numForward)
	var ready []static.NodeId
	contribute := func(forward static.NodeId, entry static.DataEntry) {
		previous, ok := gradOf[forward]
		if !ok {
			gradOf[forward] = entry
		} else {
			sumId := static.NodeId(len(g.Nodes))
			g.Nodes = append(g.Nodes, static.Node{
				Name:             g.Nodes[forward].Name + "_grad_sum",
				BackwardSourceId: forward,
				Inputs:           []static.DataEntry{previous, entry},
			})
			gradOf[forward] = static.DataEntry{SourceId: sumId}
		}
		received[forward]++
		if received[forward] == expected[forward] {
			ready = append(ready, forward)
		}
	}

	headGrads = make([]static.NodeId, 0, len(g.Heads))
	for _, head := range g.Heads {
		id := static.NodeId(len(g.Nodes))
		g.Nodes = append(g.Nodes, static.Node{
			Name:             g.Nodes[head.SourceId].Name + "_head_grad",
			BackwardSourceId: static.InvalidNodeId,
		})
		headGrads = append(headGrads, id)
		contribute(head.SourceId, static.DataEntry{SourceId: id})
	}
	for len(ready) > 0 {
		id := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		node := g.Nodes[id]
		if node.Op == nil || len(node.Inputs) == 0 {
			continue
		}
		backwardId := static.NodeId(len(g.Nodes))
		inputs := append([]static.DataEntry{gradOf[id]}, node.Inputs...)
		g.Nodes = append(g.Nodes, static.Node{
			Name:             node.Name + "_backward",
			BackwardSourceId: id,
			Inputs:           inputs,
		})
		for k, input := range node.Inputs {
			contribute(input.SourceId, static.DataEntry{SourceId: backwardId, Index: k})
		}
	}
	argGrads = make([]static.DataEntry, 0, len(g.ArgNodes))
	for _, id := range g.ArgNodes {
		entry, ok := gradOf[id]
		if !ok {
			// Argument unreachable from any head: gradient is a zero
			// placeholder tied to the variable.
			entry = static.DataEntry{SourceId: static.NodeId(len(g.Nodes))}
			g.Nodes = append(g.Nodes, static.Node{
				Name:             g.Nodes[id].Name + "_zero_grad",
				BackwardSourceId: id,
			})
		}
		argGrads = append(argGrads, entry)
	}
	return headGrads, argGrads, nil
}
