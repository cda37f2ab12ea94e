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
	"k8s.io/klog/v2"

	"github.com/symgraph/symgraph/static"
)

// ToStaticGraph flattens the shared-pointer DAG into the index-addressed
// static.Graph: one DFS assigns every reachable node a dense id in
// discovery order (variables additionally collected into ArgNodes), then a
// second pass fills the node array with operator copies and id-translated
// edges.
//
// The lowering is stable: re-lowering an unmodified symbol yields identical
// id assignments, since DFS order is fully determined by head order and
// per-node input order.
func (s *Symbol) ToStaticGraph() *static.Graph {
	g := &static.Graph{}
	nodeIndex := make(map[*Node]static.NodeId)
	var nodeOrder []*Node
	s.DFSVisit(func(node *Node) {
		id := static.NodeId(len(nodeOrder))
		nodeIndex[node] = id
		if node.IsVariable() {
			g.ArgNodes = append(g.ArgNodes, id)
		}
		nodeOrder = append(nodeOrder, node)
	})
	g.Nodes = make([]static.Node, len(nodeOrder))
	for id, node := range nodeOrder {
		flat := &g.Nodes[id]
		flat.Name = node.name
		if node.op != nil {
			flat.Op = node.op.Copy()
		}
		flat.BackwardSourceId = static.InvalidNodeId
		if node.backwardSource != nil {
			// A backward source outside the reachable graph stays unmapped.
			if sourceId, ok := nodeIndex[node.backwardSource]; ok {
				flat.BackwardSourceId = sourceId
			}
		}
		if len(node.inputs) == 0 {
			continue
		}
		flat.Inputs = make([]static.DataEntry, 0, len(node.inputs))
		for _, input := range node.inputs {
			flat.Inputs = append(flat.Inputs, static.DataEntry{SourceId: nodeIndex[input.Source], Index: input.Index})
		}
	}
	g.Heads = make([]static.DataEntry, 0, len(s.heads))
	for _, head := range s.heads {
		g.Heads = append(g.Heads, static.DataEntry{SourceId: nodeIndex[head.Source], Index: head.Index})
	}
	klog.V(2).Infof("symbol: lowered graph with %d nodes (%d arguments, %d heads)",
		len(g.Nodes), len(g.ArgNodes), len(g.Heads))
	return g
}
