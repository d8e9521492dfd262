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
	"fmt"

	"github.com/matrixorigin/maskedarray/pkg/container/nulls"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
)

// FunctionParameterWrapper is generated from a vector broadcast to a
// result shape.
// It hides the relevant details of vector (like scalar, broadcast, and
// masked or not.) and provides a series of methods to get values.
type FunctionParameterWrapper[T types.FixedSizeT] interface {
	// GetType will return the type info of wrapped parameter.
	GetType() types.Type

	// GetSourceVector return the source vector.
	GetSourceVector() *Vector

	// GetValue return the value read at result position idx and if it's
	// masked or not. The value of a masked element is its underlying data.
	GetValue(idx uint64) (T, bool)

	// UnSafeGetAllValue return all the values of the source vector.
	// please use it carefully because we didn't check the mask.
	UnSafeGetAllValue() []T
}

var _ FunctionParameterWrapper[int64] = &FunctionParameterNormal[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterWithoutNull[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterScalar[int64]{}

// GenerateFunctionFixedTypeParameter wraps v read as if broadcast to shape.
// v's shape must broadcast to shape.
func GenerateFunctionFixedTypeParameter[T types.FixedSizeT](v *Vector, shape []int) FunctionParameterWrapper[T] {
	t := v.GetType()
	cols := MustFixedCol[T](v)
	if v.Length() == 1 {
		return &FunctionParameterScalar[T]{
			typ:          *t,
			sourceVector: v,
			scalarValue:  cols[0],
			scalarNull:   v.IsMasked(0),
		}
	}
	var offsets []int
	if !SameShape(v.shape, shape) {
		offsets = BroadcastOffsets(v.shape, shape)
	}
	if nulls.Any(v.nsp) {
		return &FunctionParameterNormal[T]{
			typ:          *t,
			sourceVector: v,
			values:       cols,
			offsets:      offsets,
			nullMap:      v.nsp,
		}
	}
	return &FunctionParameterWithoutNull[T]{
		typ:          *t,
		sourceVector: v,
		values:       cols,
		offsets:      offsets,
	}
}

// FunctionParameterNormal is a wrapper of normal vector which
// may contains masked value.
type FunctionParameterNormal[T types.FixedSizeT] struct {
	typ          types.Type
	sourceVector *Vector
	values       []T
	// nil when the source is not broadcast
	offsets []int
	nullMap *nulls.Nulls
}

func (p *FunctionParameterNormal[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterNormal[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterNormal[T]) GetValue(idx uint64) (value T, isNull bool) {
	if p.offsets != nil {
		idx = uint64(p.offsets[idx])
	}
	return p.values[idx], nulls.Contains(p.nullMap, uint32(idx))
}

func (p *FunctionParameterNormal[T]) UnSafeGetAllValue() []T {
	return p.values
}

// FunctionParameterWithoutNull is a wrapper of normal vector but
// without masked value.
type FunctionParameterWithoutNull[T types.FixedSizeT] struct {
	typ          types.Type
	sourceVector *Vector
	values       []T
	offsets      []int
}

func (p *FunctionParameterWithoutNull[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterWithoutNull[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterWithoutNull[T]) GetValue(idx uint64) (T, bool) {
	if p.offsets != nil {
		return p.values[p.offsets[idx]], false
	}
	return p.values[idx], false
}

func (p *FunctionParameterWithoutNull[T]) UnSafeGetAllValue() []T {
	return p.values
}

// FunctionParameterScalar is a wrapper of a vector holding one element,
// which every result position reads.
type FunctionParameterScalar[T types.FixedSizeT] struct {
	typ          types.Type
	sourceVector *Vector
	scalarValue  T
	scalarNull   bool
}

func (p *FunctionParameterScalar[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterScalar[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterScalar[T]) GetValue(_ uint64) (T, bool) {
	return p.scalarValue, p.scalarNull
}

func (p *FunctionParameterScalar[T]) UnSafeGetAllValue() []T {
	return []T{p.scalarValue}
}

type FunctionResultWrapper interface {
	GetResultVector() *Vector
}

var _ FunctionResultWrapper = &FunctionResult[int64]{}

// FunctionResult is a preallocated result vector written by position.
type FunctionResult[T types.FixedSizeT] struct {
	vec  *Vector
	cols []T
}

func MustFunctionResult[T types.FixedSizeT](wrapper FunctionResultWrapper) *FunctionResult[T] {
	if fr, ok := wrapper.(*FunctionResult[T]); ok {
		return fr
	}
	panic("wrong type for FunctionResultWrapper")
}

func newResultFunc[T types.FixedSizeT](v *Vector) *FunctionResult[T] {
	return &FunctionResult[T]{
		vec:  v,
		cols: MustFixedCol[T](v),
	}
}

// Set writes val at position idx and masks it if isNull.
func (fr *FunctionResult[T]) Set(idx uint64, val T, isNull bool) {
	fr.cols[idx] = val
	if isNull {
		nulls.Add(fr.vec.nsp, uint32(idx))
	}
}

func (fr *FunctionResult[T]) GetType() types.Type {
	return *fr.vec.GetType()
}

func (fr *FunctionResult[T]) GetResultVector() *Vector {
	return fr.vec
}

func (fr *FunctionResult[T]) ConvertToParameter() FunctionParameterWrapper[T] {
	return GenerateFunctionFixedTypeParameter[T](fr.vec, fr.vec.shape)
}

// NewFunctionResultWrapper preallocates a zeroed result of typ and shape
// with an empty dense mask.
func NewFunctionResultWrapper(typ types.Type, shape []int) FunctionResultWrapper {
	v := NewZeros(typ, shape)
	v.nsp = nulls.New()

	switch typ.Oid {
	case types.T_bool:
		return newResultFunc[bool](v)
	case types.T_int8:
		return newResultFunc[int8](v)
	case types.T_int16:
		return newResultFunc[int16](v)
	case types.T_int32:
		return newResultFunc[int32](v)
	case types.T_int64:
		return newResultFunc[int64](v)
	case types.T_uint8:
		return newResultFunc[uint8](v)
	case types.T_uint16:
		return newResultFunc[uint16](v)
	case types.T_uint32:
		return newResultFunc[uint32](v)
	case types.T_uint64:
		return newResultFunc[uint64](v)
	case types.T_float32:
		return newResultFunc[float32](v)
	case types.T_float64:
		return newResultFunc[float64](v)
	}
	panic(fmt.Sprintf("unexpected type %s for function result", typ))
}
