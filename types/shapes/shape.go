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

// Package shapes defines Shape, the value exchanged with the static-graph
// analyzer during shape inference.
//
// A Shape is the DType of the unit element plus the dimensions of each axis.
// DType is the enumeration from github.com/gomlx/gopjrt/dtypes. A
// zero-initialized Shape is invalid; inference fills invalid entries in as
// it resolves them, and entries it cannot resolve are left invalid for the
// caller to inspect.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions).
//   - Axis: the index of a dimension. Axis 0 of shape (Float32)[2 3] has
//     dimension 2.
//   - Scalar: a shape with no axes, a single value of the given DType.
package shapes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	. "github.com/gomlx/gopjrt/dtypes"
)

// Shape of the value produced at one output slot of a graph node.
//
// Use Make to create a new shape.
type Shape struct {
	DType      DType
	Dimensions []int
}

// Make returns a Shape with the values given. It panics on dimensions <= 0:
// unknown dimensions are represented by an Invalid shape, not by zeros.
func Make(dtype DType, dimensions ...int) Shape {
	s := Shape{DType: dtype, Dimensions: slices.Clone(dimensions)}
	for _, dim := range dimensions {
		if dim <= 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with an axis with dimension <= 0", s)
		}
	}
	return s
}

// Scalar returns a scalar Shape for the given type.
func Scalar[T Number]() Shape {
	return Shape{DType: FromGenericsType[T]()}
}

// Invalid returns an invalid shape, the placeholder for not-yet-inferred
// values.
//
// Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: InvalidDType}
}

// Ok returns whether this is a valid Shape. The zero value Shape{} is invalid.
func (s Shape) Ok() bool { return s.DType != InvalidDType }

// Rank of the shape, that is, the number of axes.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape is valid and has no axes.
func (s Shape) IsScalar() bool { return s.Ok() && s.Rank() == 0 }

// Dim returns the dimension of the given axis. A negative axis counts from
// the end, so Dim(-1) is the last axis. It panics on an out-of-bound axis,
// like slice indexing.
func (s Shape) Dim(axis int) int {
	adjustedAxis := axis
	if axis < 0 {
		adjustedAxis = s.Rank() + axis
	}
	if adjustedAxis < 0 || adjustedAxis >= s.Rank() {
		exceptions.Panicf("shapes.Dim(%d): axis out of range for rank %d shape %s", axis, s.Rank(), s)
	}
	return s.Dimensions[adjustedAxis]
}

// Size returns the number of elements of the given shape, the product of
// its dimensions. A scalar has size 1.
func (s Shape) Size() (size int) {
	size = 1
	for _, dim := range s.Dimensions {
		size *= dim
	}
	return
}

// Equal compares DType and dimensions.
func (s Shape) Equal(s2 Shape) bool {
	return s.DType == s2.DType && slices.Equal(s.Dimensions, s2.Dimensions)
}

// Clone makes a deep copy (of the dimensions) of the Shape.
func (s Shape) Clone() Shape {
	return Shape{DType: s.DType, Dimensions: slices.Clone(s.Dimensions)}
}

// String implements fmt.Stringer, it prints the shape as "(DType)[dims...]".
func (s Shape) String() string {
	if !s.Ok() {
		return "(invalid shape)"
	}
	if s.IsScalar() {
		return fmt.Sprintf("(%s)", s.DType)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "(%s)[", s.DType)
	for i, dim := range s.Dimensions {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", dim)
	}
	b.WriteByte(']')
	return b.String()
}
