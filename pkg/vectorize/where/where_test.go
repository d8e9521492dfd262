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

package where

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/matrixorigin/maskedarray/pkg/container/types"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
	"github.com/matrixorigin/maskedarray/pkg/testutil"
)

func Test_Fixed(t *testing.T) {
	convey.Convey("Test where for flat slices succ", t, func() {
		cs := []bool{true, false, true, false}
		xs := []int64{1, 2, 3, 4}
		ys := []int64{-1, -2, -3, -4}
		rs := make([]int64, 4)

		convey.So(Fixed(cs, xs, ys, rs), convey.ShouldResemble, []int64{1, -2, 3, -4})
		convey.So(FixedScalar(cs, int64(9), ys, rs), convey.ShouldResemble, []int64{9, -2, 9, -4})
		convey.So(ScalarFixed(cs, xs, int64(0), rs), convey.ShouldResemble, []int64{1, 0, 3, 0})
	})
}

func boolParam(vs []bool, shape, dst []int) vector.FunctionParameterWrapper[bool] {
	if shape == nil {
		return vector.GenerateFunctionFixedTypeParameter[bool](vector.NewConst(vs[0]), dst)
	}
	return vector.GenerateFunctionFixedTypeParameter[bool](testutil.MakeVector(vs, shape, nil), dst)
}

func Test_Select(t *testing.T) {
	convey.Convey("Test where with masks and broadcasting succ", t, func() {
		shape := []int{2, 3}
		cf := boolParam([]bool{true, false, true, false, false, false}, shape, shape)
		cm := boolParam([]bool{false, false, false, false, true, false}, shape, shape)
		// x is a row broadcast over both rows, masked at column 0
		xd := testutil.MakeVector([]float64{10, 11, 12}, []int{3}, nil)
		xm := boolParam([]bool{true, false, false}, []int{3}, shape)
		// y is an unmasked scalar
		yd := testutil.MakeScalar(-1.0, false)
		ym := boolParam([]bool{false}, nil, shape)

		rw := vector.NewFunctionResultWrapper(types.T_float64.ToType(), shape)
		rs := vector.MustFunctionResult[float64](rw)
		Select(cf, cm, xm, ym,
			vector.GenerateFunctionFixedTypeParameter[float64](xd, shape),
			vector.GenerateFunctionFixedTypeParameter[float64](yd, shape),
			rs, 6)

		res := rs.GetResultVector()
		convey.So(vector.MustFixedCol[float64](res), convey.ShouldResemble, []float64{10, -1, 12, -1, -1, -1})
		convey.So(res.MaskArray(), convey.ShouldResemble, []bool{true, false, false, false, true, false})
	})

	convey.Convey("Test where with a masked scalar operand succ", t, func() {
		shape := []int{3}
		cf := boolParam([]bool{true, false, true}, shape, shape)
		cm := boolParam([]bool{false}, nil, shape)
		xd := vector.NewConstZero(types.T_int32.ToType())
		xm := boolParam([]bool{true}, nil, shape)
		yd := testutil.MakeInt32Vector([]int32{7, 8, 9}, nil)
		ym := boolParam([]bool{false, false, false}, shape, shape)

		rw := vector.NewFunctionResultWrapper(types.T_int32.ToType(), shape)
		rs := vector.MustFunctionResult[int32](rw)
		Select(cf, cm, xm, ym,
			vector.GenerateFunctionFixedTypeParameter[int32](xd, shape),
			vector.GenerateFunctionFixedTypeParameter[int32](yd, shape),
			rs, 3)

		res := rs.GetResultVector()
		convey.So(vector.MustFixedCol[int32](res), convey.ShouldResemble, []int32{0, 8, 0})
		convey.So(res.MaskArray(), convey.ShouldResemble, []bool{true, false, true})
	})
}

func BenchmarkSelect(b *testing.B) {
	n := 8192
	shape := []int{n}
	cf := vector.GenerateFunctionFixedTypeParameter[bool](testutil.NewVector(n, types.T_bool.ToType(), true), shape)
	cm := boolParam([]bool{false}, nil, shape)
	xm := boolParam(make([]bool, n), shape, shape)
	ym := boolParam([]bool{false}, nil, shape)
	xd := vector.GenerateFunctionFixedTypeParameter[int64](testutil.NewVector(n, types.T_int64.ToType(), true), shape)
	yd := vector.GenerateFunctionFixedTypeParameter[int64](testutil.NewVector(n, types.T_int64.ToType(), true), shape)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rs := vector.MustFunctionResult[int64](vector.NewFunctionResultWrapper(types.T_int64.ToType(), shape))
		Select(cf, cm, xm, ym, xd, yd, rs, uint64(n))
	}
}
