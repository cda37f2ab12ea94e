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

// Package op defines Operator, the descriptor contract that the symbol and
// static packages consume.
//
// An Operator describes an operation symbolically: its display type, the
// ordered names of the arguments it takes and of the outputs it produces.
// The numeric semantics of the operation (forward computation, gradient
// formulas) live entirely behind this interface -- the graph layer never
// needs them.
//
// Operator implementations are provided by whoever registers operations
// with the surrounding framework; symboltest provides a trivial one for
// tests.
package op

// Operator describes an operation that can be applied to graph nodes.
//
// Implementations must be usable as values held by multiple graphs: Copy
// must return an independent instance, since graph cloning and lowering
// duplicate the descriptor rather than alias it.
type Operator interface {
	// Copy returns an independent duplicate of this operator descriptor.
	Copy() Operator

	// TypeString returns the display name of the operation, e.g. "FullyConnected".
	TypeString() string

	// ListArguments returns the declared argument names, in positional
	// binding order.
	ListArguments() []string

	// ListReturns returns the declared output names, indexed by output slot.
	ListReturns() []string

	// NumVisibleReturns returns how many outputs are exposed as heads when
	// the operator is wrapped into a symbol. It is at most len(ListReturns()).
	NumVisibleReturns() int
}
