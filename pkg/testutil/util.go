// Copyright 2021 Matrix Origin
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

package testutil

import (
	"context"
	"math/rand"

	"github.com/matrixorigin/maskedarray/pkg/container/nulls"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
)

// MakeVector builds a vector of the given shape (1-d when shape is nil)
// and masks the flat indices listed in masked. A non-nil empty masked
// gives an all-false dense mask.
func MakeVector[T types.FixedSizeT](values []T, shape []int, masked []uint32) *vector.Vector {
	vec, err := vector.NewVec(context.Background(), values, shape...)
	if err != nil {
		panic(err)
	}
	if masked != nil {
		vec.SetNulls(nulls.Build(masked...))
	}
	return vec
}

// MakeScalar builds a 0-d vector, masked if isMasked.
func MakeScalar[T types.FixedSizeT](value T, isMasked bool) *vector.Vector {
	vec := vector.NewConst(value)
	if isMasked {
		vec.SetNulls(nulls.Build(0))
	}
	return vec
}

func MakeBoolVector(values []bool, masked []uint32) *vector.Vector {
	return MakeVector(values, nil, masked)
}

func MakeInt32Vector(values []int32, masked []uint32) *vector.Vector {
	return MakeVector(values, nil, masked)
}

func MakeInt64Vector(values []int64, masked []uint32) *vector.Vector {
	return MakeVector(values, nil, masked)
}

func MakeUint8Vector(values []uint8, masked []uint32) *vector.Vector {
	return MakeVector(values, nil, masked)
}

func MakeFloat64Vector(values []float64, masked []uint32) *vector.Vector {
	return MakeVector(values, nil, masked)
}

// NewVector returns a 1-d vector of n elements of typ, either 0..n-1 or
// random values.
func NewVector(n int, typ types.Type, random bool) *vector.Vector {
	switch typ.Oid {
	case types.T_bool:
		vs := make([]bool, n)
		for i := range vs {
			vs[i] = i%2 == 0
			if random {
				vs[i] = rand.Intn(2) == 0
			}
		}
		return MakeVector(vs, nil, nil)
	case types.T_int8:
		return MakeVector(newValues[int8](n, random), nil, nil)
	case types.T_int16:
		return MakeVector(newValues[int16](n, random), nil, nil)
	case types.T_int32:
		return MakeVector(newValues[int32](n, random), nil, nil)
	case types.T_int64:
		return MakeVector(newValues[int64](n, random), nil, nil)
	case types.T_uint8:
		return MakeVector(newValues[uint8](n, random), nil, nil)
	case types.T_uint16:
		return MakeVector(newValues[uint16](n, random), nil, nil)
	case types.T_uint32:
		return MakeVector(newValues[uint32](n, random), nil, nil)
	case types.T_uint64:
		return MakeVector(newValues[uint64](n, random), nil, nil)
	case types.T_float32:
		return MakeVector(newValues[float32](n, random), nil, nil)
	case types.T_float64:
		return MakeVector(newValues[float64](n, random), nil, nil)
	}
	panic("unsupported vector type")
}

// RandomMask masks each of n elements with probability 1/k.
func RandomMask(n, k int) []uint32 {
	rows := []uint32{}
	for i := 0; i < n; i++ {
		if rand.Intn(k) == 0 {
			rows = append(rows, uint32(i))
		}
	}
	return rows
}

func newValues[T types.Number](n int, random bool) []T {
	vs := make([]T, n)
	for i := range vs {
		v := i
		if random {
			v = rand.Int()
		}
		vs[i] = T(v)
	}
	return vs
}
