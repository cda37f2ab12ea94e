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

import "github.com/symgraph/symgraph/op"

// Node is a vertex of the symbolic graph.
//
// There are four variants, told apart by which fields are set:
//
//   - Variable: op == nil, backwardSource == nil, no inputs. A named
//     placeholder that composition can bind.
//   - Atomic operator template: op != nil, no inputs. An operator not yet
//     applied to arguments.
//   - Applied node: op != nil, inputs set.
//   - Backward node: backwardSource != nil. Synthesized by Grad to stand
//     for a backward computation derived from its forward source node.
//
// Nodes are shared: multiple DataEntry edges (and multiple Symbols) may
// reference the same *Node, and that sharing is meaningful -- it is what
// distinguishes "the same variable used twice" from "two variables with the
// same name". Node identity is pointer identity throughout.
type Node struct {
	// op is the operator descriptor, owned by this node; nil for variables
	// and backward nodes.
	op op.Operator

	// name identifies variables and names composed operator instances.
	name string

	// inputs are the operand edges, in the operator's argument order.
	inputs []DataEntry

	// backwardSource links a gradient node to the forward node it derives
	// from. It is a lookup-only relation, not an operand edge: DFSVisit
	// follows only inputs, so this back-reference can never form a
	// traversal cycle.
	backwardSource *Node
}

// DataEntry is an edge of the graph: output Index of node Source.
type DataEntry struct {
	Source *Node
	Index  int
}

// IsVariable returns whether the node is an unbound variable placeholder.
func (n *Node) IsVariable() bool {
	return n.op == nil && n.backwardSource == nil
}

// isAtomic returns whether the node is an operator template with no inputs
// bound yet.
func (n *Node) isAtomic() bool {
	return n.op != nil && len(n.inputs) == 0
}

// Name of the node. Meaningful for variables and named operator instances;
// empty for anonymous nodes.
func (n *Node) Name() string { return n.name }

// Op returns the node's operator descriptor, or nil for variables and
// backward nodes.
func (n *Node) Op() op.Operator { return n.op }

// Inputs returns the node's operand edges. The returned slice is the node's
// own; callers must not modify it.
func (n *Node) Inputs() []DataEntry { return n.inputs }

// BackwardSource returns the forward node this gradient node was derived
// from, or nil if the node is not a backward node.
func (n *Node) BackwardSource() *Node { return n.backwardSource }

// typeString returns the display type of the node's operation. For backward
// nodes the type is taken from the forward source's operator.
func (n *Node) typeString() string {
	if n.backwardSource != nil && n.backwardSource.op != nil {
		return n.backwardSource.op.TypeString()
	}
	if n.op != nil {
		return n.op.TypeString()
	}
	return ""
}
