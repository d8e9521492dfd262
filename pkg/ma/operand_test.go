// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ma

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
	"github.com/matrixorigin/maskedarray/pkg/testutil"
)

func TestOperand(t *testing.T) {
	var o Operand
	require.True(t, o.IsOmitted())
	require.Equal(t, Omitted, o)
	require.Equal(t, "omitted", o.String())
	require.True(t, Array(nil).IsOmitted())

	require.True(t, Masked.IsMasked())
	require.Equal(t, "masked", Masked.String())

	v := testutil.MakeVector([]int32{1, 2, 3, 4}, []int{2, 2}, nil)
	a := Array(v)
	require.False(t, a.IsOmitted())
	require.False(t, a.IsMasked())
	require.Same(t, v, a.Vector())
	require.Equal(t, "INT32[2 2]", a.String())
}

func TestMaskedMaterialize(t *testing.T) {
	ctx := context.Background()
	d, err := GetData(ctx, Masked)
	require.NoError(t, err)
	require.Equal(t, types.T_float64, d.GetType().Oid)
	require.Equal(t, 0, d.Ndim())
	require.Equal(t, []float64{0}, vector.MustFixedCol[float64](d))
	require.False(t, d.HasMask())

	m, err := GetMaskArray(ctx, Masked)
	require.NoError(t, err)
	require.Equal(t, []bool{true}, vector.MustFixedCol[bool](m))

	_, err = GetData(ctx, Omitted)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
}

func TestGetMaskArray(t *testing.T) {
	ctx := context.Background()
	v := testutil.MakeVector([]int64{1, 2, 3, 4, 5, 6}, []int{2, 3}, nil)
	m, err := GetMaskArray(ctx, Array(v))
	require.NoError(t, err)
	require.Equal(t, []int{2, 3}, m.Shape())
	require.Equal(t, make([]bool, 6), vector.MustFixedCol[bool](m))

	v.SetNulls(testutil.MakeBoolVector(nil, []uint32{1, 5}).GetNulls())
	m, err = GetMaskArray(ctx, Array(v))
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, false, false, false, true}, vector.MustFixedCol[bool](m))
}

func TestFilled(t *testing.T) {
	ctx := context.Background()
	v := testutil.MakeVector([]int8{1, 2, 3}, nil, []uint32{1})
	f, err := Filled(ctx, Array(v), 9)
	require.NoError(t, err)
	require.False(t, f.HasMask())
	require.Equal(t, []int8{1, 9, 3}, vector.MustFixedCol[int8](f))
	require.Equal(t, []int8{1, 2, 3}, vector.MustFixedCol[int8](v))

	b := testutil.MakeBoolVector([]bool{true, true, false}, []uint32{0})
	f, err = Filled(ctx, Array(b), 0)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, false}, vector.MustFixedCol[bool](f))

	f, err = Filled(ctx, Masked, 1.5)
	require.NoError(t, err)
	require.Equal(t, []float64{1.5}, vector.MustFixedCol[float64](f))
}
