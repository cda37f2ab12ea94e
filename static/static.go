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

// Package static holds the flattened, index-addressed projection of a
// symbolic graph, and the Analyzer contract of the analysis engine that
// consumes it.
//
// The symbol package represents graphs as shared pointers, which is
// convenient for building and composing but useless for analysis passes
// that need stable addressing. symbol.Symbol.ToStaticGraph lowers into a
// static.Graph, where every node is addressed by a dense NodeId assigned in
// DFS-discovery order. Shape inference and backward-pass synthesis run on
// this form, behind the Analyzer interface -- their algorithms live outside
// this module.
package static

import (
	"github.com/symgraph/symgraph/op"
	"github.com/symgraph/symgraph/types/shapes"
)

// NodeId is the dense index of a node within a Graph, assigned in
// DFS-discovery order by the lowering.
type NodeId int

// InvalidNodeId is the sentinel for "no node", used by Node.BackwardSourceId
// when a node has no backward source.
const InvalidNodeId = NodeId(-1)

// DataEntry addresses output Index of the node with id SourceId.
type DataEntry struct {
	SourceId NodeId
	Index    int
}

// Node is the flattened form of a symbol graph node.
type Node struct {
	// Op is a deep copy of the symbolic node's operator descriptor, nil for
	// variables and backward nodes.
	Op op.Operator

	// Name of the node; for variables this is the argument name.
	Name string

	// BackwardSourceId is the id of the forward node this gradient node was
	// derived from, or InvalidNodeId.
	BackwardSourceId NodeId

	// Inputs are the operand edges, translated to id addressing.
	Inputs []DataEntry
}

// IsVariable returns whether the node is an unbound variable placeholder.
func (n *Node) IsVariable() bool {
	return n.Op == nil && n.BackwardSourceId == InvalidNodeId
}

// Graph is the flattened projection of a symbol graph.
//
// Lowering is stable: an unmodified symbol graph lowers to identical id
// assignments every time. Analyzer implementations may append nodes (the
// backward pass does) but must never reorder or mutate the existing prefix.
type Graph struct {
	// Nodes in DFS-discovery order.
	Nodes []Node

	// ArgNodes are the ids of the variable nodes, in discovery order. This
	// order defines the positional argument order for shape inference and
	// gradient lookup.
	ArgNodes []NodeId

	// Heads are the designated outputs.
	Heads []DataEntry
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int { return len(g.Nodes) }

// Analyzer is the analysis engine that operates on a flattened graph.
//
// The algorithms behind it (shape propagation rules, topological backward
// augmentation) are external to this module; the graph layer only marshals
// arguments in and lifts results back.
type Analyzer interface {
	// InferShape propagates shapes through g. argShapes must have
	// len(g.ArgNodes) entries and outShapes len(g.Heads) entries; known
	// shapes are set by the caller, unknown ones are shapes.Invalid(). Both
	// slices are filled in place as far as inference can resolve them. It
	// returns false if the shapes cannot be fully resolved, leaving the
	// partial results in place for the caller to inspect.
	InferShape(g *Graph, argShapes, outShapes []shapes.Shape) bool

	// MakeBackwardPass appends gradient nodes to g.Nodes and returns, per
	// head of g, the id of its head-gradient node, and, per entry of
	// g.ArgNodes, the DataEntry of that argument's accumulated gradient.
	// Appended nodes reference their forward counterpart through
	// BackwardSourceId.
	MakeBackwardPass(g *Graph) (headGrads []NodeId, argGrads []DataEntry, err error)
}
