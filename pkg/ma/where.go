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

	"go.uber.org/zap"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
	"github.com/matrixorigin/maskedarray/pkg/logutil/logutil2"
	"github.com/matrixorigin/maskedarray/pkg/vectorize/nonzero"
	"github.com/matrixorigin/maskedarray/pkg/vectorize/where"
)

// Selection is the result of Where. Array is set when x and y are given,
// Indices when both are omitted.
type Selection struct {
	Array   *vector.Vector
	Indices [][]int64
}

// Where returns an array with elements from x where condition is true and
// from y elsewhere. Masked condition entries count as false and mask the
// result. With x and y both omitted it returns Nonzero(condition).
func Where(ctx context.Context, condition, x, y Operand, opts ...Option) (*Selection, error) {
	if condition.IsOmitted() {
		return nil, moerr.NewInvalidArg(ctx, "condition", "omitted")
	}
	missing := 0
	if x.IsOmitted() {
		missing++
	}
	if y.IsOmitted() {
		missing++
	}
	switch missing {
	case 1:
		return nil, moerr.NewInvalidArg(ctx, "x, y", "must give either both or neither of 'x' and 'y'")
	case 2:
		indices, err := Nonzero(ctx, condition)
		if err != nil {
			return nil, err
		}
		return &Selection{Indices: indices}, nil
	}

	o := newOptions(opts)
	filled, err := Filled(ctx, condition, 0)
	if err != nil {
		return nil, err
	}
	cf, err := truthy(ctx, filled)
	if err != nil {
		return nil, err
	}
	xd, _ := GetData(ctx, x)
	yd, _ := GetData(ctx, y)
	cm, _ := GetMaskArray(ctx, condition)
	xm, _ := GetMaskArray(ctx, x)
	ym, _ := GetMaskArray(ctx, y)

	// A lone masked constant takes the other operand's type so that it does
	// not promote the result to float64.
	if x.IsMasked() && !y.IsMasked() {
		xd = vector.NewConstZero(*yd.GetType())
		xm = vector.NewConst(true)
	}
	if y.IsMasked() && !x.IsMasked() {
		yd = vector.NewConstZero(*xd.GetType())
		ym = vector.NewConst(true)
	}

	shape, err := vector.Broadcast(ctx, cf.Shape(), xd.Shape(), yd.Shape(), xm.Shape(), ym.Shape(), cm.Shape())
	if err != nil {
		return nil, err
	}
	if _, err = vector.CheckedProd(ctx, shape, o.maxElements); err != nil {
		return nil, err
	}
	typ := types.Promote(xd.GetType().Oid, yd.GetType().Oid).ToType()
	if xd, err = vector.Cast(ctx, xd, typ); err != nil {
		return nil, err
	}
	if yd, err = vector.Cast(ctx, yd, typ); err != nil {
		return nil, err
	}
	logutil2.Debug(ctx, "where",
		zap.Stringer("condition", condition),
		zap.Stringer("x", x),
		zap.Stringer("y", y),
		zap.Ints("shape", shape),
		zap.String("type", typ.String()))

	var rs *vector.Vector
	switch typ.Oid {
	case types.T_bool:
		rs = whereGeneral[bool](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_int8:
		rs = whereGeneral[int8](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_int16:
		rs = whereGeneral[int16](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_int32:
		rs = whereGeneral[int32](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_int64:
		rs = whereGeneral[int64](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_uint8:
		rs = whereGeneral[uint8](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_uint16:
		rs = whereGeneral[uint16](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_uint32:
		rs = whereGeneral[uint32](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_uint64:
		rs = whereGeneral[uint64](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_float32:
		rs = whereGeneral[float32](cf, cm, xm, ym, xd, yd, typ, shape)
	case types.T_float64:
		rs = whereGeneral[float64](cf, cm, xm, ym, xd, yd, typ, shape)
	default:
		return nil, moerr.NewNotSupported(ctx, "where for type %s", typ)
	}
	if o.shrink {
		rs.ShrinkMask()
	}
	return &Selection{Array: rs}, nil
}

// whereGeneral evaluates the selection for result element type T. All
// operands broadcast to shape.
func whereGeneral[T types.FixedSizeT](cf, cm, xm, ym, xd, yd *vector.Vector, typ types.Type, shape []int) *vector.Vector {
	rw := vector.NewFunctionResultWrapper(typ, shape)
	rs := vector.MustFunctionResult[T](rw)
	if vector.SameShape(cf.Shape(), shape) && !anyTrue(cm) && !anyTrue(xm) && !anyTrue(ym) {
		cs := vector.MustFixedCol[bool](cf)
		out := vector.MustFixedCol[T](rs.GetResultVector())
		switch {
		case vector.SameShape(xd.Shape(), shape) && vector.SameShape(yd.Shape(), shape):
			where.Fixed(cs, vector.MustFixedCol[T](xd), vector.MustFixedCol[T](yd), out)
			return rs.GetResultVector()
		case xd.IsConst() && vector.SameShape(yd.Shape(), shape):
			where.FixedScalar(cs, vector.MustFixedCol[T](xd)[0], vector.MustFixedCol[T](yd), out)
			return rs.GetResultVector()
		case vector.SameShape(xd.Shape(), shape) && yd.IsConst():
			where.ScalarFixed(cs, vector.MustFixedCol[T](xd), vector.MustFixedCol[T](yd)[0], out)
			return rs.GetResultVector()
		}
	}
	where.Select(
		vector.GenerateFunctionFixedTypeParameter[bool](cf, shape),
		vector.GenerateFunctionFixedTypeParameter[bool](cm, shape),
		vector.GenerateFunctionFixedTypeParameter[bool](xm, shape),
		vector.GenerateFunctionFixedTypeParameter[bool](ym, shape),
		vector.GenerateFunctionFixedTypeParameter[T](xd, shape),
		vector.GenerateFunctionFixedTypeParameter[T](yd, shape),
		rs,
		uint64(vector.Prod(shape)))
	return rs.GetResultVector()
}

// Nonzero returns the coordinates of the truthy, unmasked elements of
// condition, one slice per dimension, in row-major order.
func Nonzero(ctx context.Context, condition Operand) ([][]int64, error) {
	v, err := condition.materialize(ctx, "condition")
	if err != nil {
		return nil, err
	}
	if v.Ndim() == 0 {
		return nil, moerr.NewInvalidInput(ctx, "calling nonzero on 0d arrays is not allowed")
	}
	data, _ := GetData(ctx, condition)
	cs, err := truthy(ctx, data)
	if err != nil {
		return nil, err
	}
	return nonzero.Nonzero(vector.MustFixedCol[bool](cs), v.GetNulls(), v.Shape()), nil
}

// truthy converts v to a bool array of the same shape, non-zero is true.
func truthy(ctx context.Context, v *vector.Vector) (*vector.Vector, error) {
	bs, err := vector.Truthy(ctx, v)
	if err != nil {
		return nil, err
	}
	rs := vector.NewZeros(types.T_bool.ToType(), v.Shape())
	copy(vector.MustFixedCol[bool](rs), bs)
	return rs, nil
}

func anyTrue(v *vector.Vector) bool {
	for _, b := range vector.MustFixedCol[bool](v) {
		if b {
			return true
		}
	}
	return false
}
