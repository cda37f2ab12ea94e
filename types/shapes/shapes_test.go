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

package shapes

import (
	"testing"

	. "github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func TestShape(t *testing.T) {
	invalidShape := Invalid()
	require.False(t, invalidShape.Ok())
	require.False(t, Shape{}.Ok())

	shape0 := Make(Float64)
	require.True(t, shape0.Ok())
	require.True(t, shape0.IsScalar())
	require.Equal(t, 0, shape0.Rank())
	require.Equal(t, 1, shape0.Size())

	shape1 := Make(Float32, 4, 3, 2)
	require.True(t, shape1.Ok())
	require.False(t, shape1.IsScalar())
	require.Equal(t, 3, shape1.Rank())
	require.Equal(t, 4*3*2, shape1.Size())

	require.Panics(t, func() { Make(Float32, 4, 0) })
}

func TestDim(t *testing.T) {
	shape := Make(Float32, 4, 3, 2)
	require.Equal(t, 4, shape.Dim(0))
	require.Equal(t, 2, shape.Dim(2))
	require.Equal(t, 4, shape.Dim(-3))
	require.Equal(t, 2, shape.Dim(-1))
	require.Panics(t, func() { _ = shape.Dim(3) })
	require.Panics(t, func() { _ = shape.Dim(-4) })
}

func TestEqualAndClone(t *testing.T) {
	shape := Make(Int32, 2, 3)
	clone := shape.Clone()
	require.True(t, shape.Equal(clone))
	clone.Dimensions[0] = 7
	require.False(t, shape.Equal(clone))
	require.Equal(t, 2, shape.Dimensions[0])

	require.False(t, Make(Int32, 2, 3).Equal(Make(Int64, 2, 3)))
	require.True(t, Scalar[float32]().Equal(Make(Float32)))
}

func TestString(t *testing.T) {
	require.Equal(t, "(Float32)[4 3]", Make(Float32, 4, 3).String())
	require.Equal(t, "(Float64)", Make(Float64).String())
	require.Equal(t, "(invalid shape)", Invalid().String())
}
