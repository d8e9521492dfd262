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

package vector

import (
	"context"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
)

// Cast converts the data of v to typ. The mask is shared with v. When v
// already has typ, v itself is returned.
func Cast(ctx context.Context, v *Vector, typ types.Type) (*Vector, error) {
	if v.typ.Oid == typ.Oid {
		return v, nil
	}
	var col any
	var err error
	switch src := v.col.(type) {
	case []bool:
		col, err = castFromBool(ctx, src, typ.Oid)
	case []int8:
		col, err = castFrom(ctx, src, typ.Oid)
	case []int16:
		col, err = castFrom(ctx, src, typ.Oid)
	case []int32:
		col, err = castFrom(ctx, src, typ.Oid)
	case []int64:
		col, err = castFrom(ctx, src, typ.Oid)
	case []uint8:
		col, err = castFrom(ctx, src, typ.Oid)
	case []uint16:
		col, err = castFrom(ctx, src, typ.Oid)
	case []uint32:
		col, err = castFrom(ctx, src, typ.Oid)
	case []uint64:
		col, err = castFrom(ctx, src, typ.Oid)
	case []float32:
		col, err = castFrom(ctx, src, typ.Oid)
	case []float64:
		col, err = castFrom(ctx, src, typ.Oid)
	default:
		return nil, moerr.NewNotSupported(ctx, "cast from %s", v.typ)
	}
	if err != nil {
		return nil, err
	}
	return &Vector{
		class: v.class,
		typ:   typ,
		shape: v.shape,
		nsp:   v.nsp,
		col:   col,
	}, nil
}

// Truthy returns v as booleans, non-zero elements being true. Masked
// elements keep their underlying truth value.
func Truthy(ctx context.Context, v *Vector) ([]bool, error) {
	w, err := Cast(ctx, v, types.T_bool.ToType())
	if err != nil {
		return nil, err
	}
	return MustFixedCol[bool](w), nil
}

func castFrom[S types.Number](ctx context.Context, src []S, to types.T) (any, error) {
	switch to {
	case types.T_bool:
		rs := make([]bool, len(src))
		for i, x := range src {
			rs[i] = x != 0
		}
		return rs, nil
	case types.T_int8:
		return numericCast[S, int8](src), nil
	case types.T_int16:
		return numericCast[S, int16](src), nil
	case types.T_int32:
		return numericCast[S, int32](src), nil
	case types.T_int64:
		return numericCast[S, int64](src), nil
	case types.T_uint8:
		return numericCast[S, uint8](src), nil
	case types.T_uint16:
		return numericCast[S, uint16](src), nil
	case types.T_uint32:
		return numericCast[S, uint32](src), nil
	case types.T_uint64:
		return numericCast[S, uint64](src), nil
	case types.T_float32:
		return numericCast[S, float32](src), nil
	case types.T_float64:
		return numericCast[S, float64](src), nil
	}
	return nil, moerr.NewNotSupported(ctx, "cast to %s", to)
}

func castFromBool(ctx context.Context, src []bool, to types.T) (any, error) {
	switch to {
	case types.T_int8:
		return boolCast[int8](src), nil
	case types.T_int16:
		return boolCast[int16](src), nil
	case types.T_int32:
		return boolCast[int32](src), nil
	case types.T_int64:
		return boolCast[int64](src), nil
	case types.T_uint8:
		return boolCast[uint8](src), nil
	case types.T_uint16:
		return boolCast[uint16](src), nil
	case types.T_uint32:
		return boolCast[uint32](src), nil
	case types.T_uint64:
		return boolCast[uint64](src), nil
	case types.T_float32:
		return boolCast[float32](src), nil
	case types.T_float64:
		return boolCast[float64](src), nil
	}
	return nil, moerr.NewNotSupported(ctx, "cast to %s", to)
}

func numericCast[S, D types.Number](src []S) []D {
	rs := make([]D, len(src))
	for i, x := range src {
		rs[i] = D(x)
	}
	return rs
}

func boolCast[D types.Number](src []bool) []D {
	rs := make([]D, len(src))
	for i, x := range src {
		if x {
			rs[i] = 1
		}
	}
	return rs
}
