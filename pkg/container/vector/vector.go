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

package vector

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/container/nulls"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
)

const (
	FLAT     = iota // flat vector represent an n-d array, n >= 1
	CONSTANT        // const vector represent a 0-d scalar
)

// Vector represent a dense n-d array of fixed size elements in row-major
// order, with an optional mask over the flat indices.
type Vector struct {
	// vector's class
	class int
	// type represent the type of element
	typ   types.Type
	shape []int
	// nsp == nil means nomask, otherwise a set bit marks a masked element
	nsp *nulls.Nulls

	// []T of the element type
	col any
}

// NewVec creates an n-d vector over col. An empty shape means a 1-d vector
// of len(col) elements.
func NewVec[T types.FixedSizeT](ctx context.Context, col []T, shape ...int) (*Vector, error) {
	if len(shape) == 0 {
		shape = []int{len(col)}
	}
	n, err := CheckedProd(ctx, shape, MaxElements)
	if err != nil {
		return nil, err
	}
	if n != len(col) {
		return nil, moerr.NewSizeNotMatch(ctx, "cannot reshape %d elements into shape %v", len(col), shape)
	}
	return &Vector{
		class: FLAT,
		typ:   types.TypeOf[T]().ToType(),
		shape: append([]int(nil), shape...),
		col:   col,
	}, nil
}

// NewConst creates a 0-d vector holding val.
func NewConst[T types.FixedSizeT](val T) *Vector {
	return &Vector{
		class: CONSTANT,
		typ:   types.TypeOf[T]().ToType(),
		col:   []T{val},
	}
}

// NewConstMasked creates a masked 0-d vector of typ whose data is typ's zero.
func NewConstMasked(typ types.Type) *Vector {
	v := NewConstZero(typ)
	v.nsp = nulls.Build(0)
	return v
}

// NewConstZero creates a 0-d vector holding the zero value of typ.
func NewConstZero(typ types.Type) *Vector {
	return &Vector{
		class: CONSTANT,
		typ:   typ,
		col:   makeCol(typ.Oid, 1),
	}
}

// NewZeros creates a vector of typ with the given shape and zero data.
func NewZeros(typ types.Type, shape []int) *Vector {
	class := FLAT
	if len(shape) == 0 {
		class = CONSTANT
	}
	return &Vector{
		class: class,
		typ:   typ,
		shape: append([]int(nil), shape...),
		col:   makeCol(typ.Oid, Prod(shape)),
	}
}

func makeCol(oid types.T, n int) any {
	switch oid {
	case types.T_bool:
		return make([]bool, n)
	case types.T_int8:
		return make([]int8, n)
	case types.T_int16:
		return make([]int16, n)
	case types.T_int32:
		return make([]int32, n)
	case types.T_int64:
		return make([]int64, n)
	case types.T_uint8:
		return make([]uint8, n)
	case types.T_uint16:
		return make([]uint16, n)
	case types.T_uint32:
		return make([]uint32, n)
	case types.T_uint64:
		return make([]uint64, n)
	case types.T_float32:
		return make([]float32, n)
	case types.T_float64:
		return make([]float64, n)
	}
	panic(moerr.NewInternalErrorNoCtx("unexpected type %s for vector", oid))
}

func MustFixedCol[T types.FixedSizeT](v *Vector) []T {
	return v.col.([]T)
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

// Length returns the number of elements.
func (v *Vector) Length() int {
	return Prod(v.shape)
}

// Shape returns the dimensions, nil for a 0-d vector.
func (v *Vector) Shape() []int {
	return v.shape
}

func (v *Vector) Ndim() int {
	return len(v.shape)
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

// SetNulls sets the mask. nil means nomask.
func (v *Vector) SetNulls(nsp *nulls.Nulls) {
	v.nsp = nsp
}

// HasMask reports whether v carries a dense mask, even an all-false one.
func (v *Vector) HasMask() bool {
	return v.nsp != nil
}

// IsMasked reports whether the element at flat index i is masked.
func (v *Vector) IsMasked(i int) bool {
	return nulls.Contains(v.nsp, uint32(i))
}

// MaskArray returns the full-shape mask, all false for nomask.
func (v *Vector) MaskArray() []bool {
	return nulls.ToBools(v.nsp, v.Length())
}

// ShrinkMask drops a mask that has no bit set.
func (v *Vector) ShrinkMask() {
	if v.nsp != nil && !nulls.Any(v.nsp) {
		v.nsp = nil
	}
}

// Data returns v without its mask. The data is shared.
func (v *Vector) Data() *Vector {
	w := *v
	w.nsp = nil
	return &w
}

// Dup returns a deep copy of v.
func (v *Vector) Dup() *Vector {
	w := &Vector{
		class: v.class,
		typ:   v.typ,
		shape: append([]int(nil), v.shape...),
		nsp:   v.nsp.Clone(),
		col:   makeCol(v.typ.Oid, v.Length()),
	}
	copy(colBytes(w), colBytes(v))
	return w
}

func colBytes(v *Vector) []byte {
	switch col := v.col.(type) {
	case []bool:
		return types.EncodeSlice(col)
	case []int8:
		return types.EncodeSlice(col)
	case []int16:
		return types.EncodeSlice(col)
	case []int32:
		return types.EncodeSlice(col)
	case []int64:
		return types.EncodeSlice(col)
	case []uint8:
		return col
	case []uint16:
		return types.EncodeSlice(col)
	case []uint32:
		return types.EncodeSlice(col)
	case []uint64:
		return types.EncodeSlice(col)
	case []float32:
		return types.EncodeSlice(col)
	case []float64:
		return types.EncodeSlice(col)
	}
	panic(moerr.NewInternalErrorNoCtx("unexpected column %T", v.col))
}

func colFromBytes(oid types.T, data []byte) any {
	switch oid {
	case types.T_bool:
		return types.DecodeSlice[bool](data)
	case types.T_int8:
		return types.DecodeSlice[int8](data)
	case types.T_int16:
		return types.DecodeSlice[int16](data)
	case types.T_int32:
		return types.DecodeSlice[int32](data)
	case types.T_int64:
		return types.DecodeSlice[int64](data)
	case types.T_uint8:
		return types.DecodeSlice[uint8](data)
	case types.T_uint16:
		return types.DecodeSlice[uint16](data)
	case types.T_uint32:
		return types.DecodeSlice[uint32](data)
	case types.T_uint64:
		return types.DecodeSlice[uint64](data)
	case types.T_float32:
		return types.DecodeSlice[float32](data)
	case types.T_float64:
		return types.DecodeSlice[float64](data)
	}
	panic(moerr.NewInternalErrorNoCtx("unexpected type %s for vector", oid))
}

func (v *Vector) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(uint8(v.class))
	buf.WriteByte(uint8(v.typ.Oid))
	{ // write ndim, shape
		ndim := uint32(len(v.shape))
		buf.Write(types.EncodeUint32(&ndim))
		for _, d := range v.shape {
			dim := int64(d)
			buf.Write(types.EncodeInt64(&dim))
		}
	}
	{ // write hasMask, nspLen, nsp
		if v.nsp == nil {
			buf.WriteByte(0)
		} else {
			buf.WriteByte(1)
			data, err := v.nsp.Show()
			if err != nil {
				return nil, err
			}
			length := uint32(len(data))
			buf.Write(types.EncodeUint32(&length))
			buf.Write(data)
		}
	}
	// write col
	buf.Write(colBytes(v))
	return buf.Bytes(), nil
}

func (v *Vector) UnmarshalBinary(data []byte) error {
	ctx := moerr.Context()
	if len(data) < 6 {
		return moerr.NewUnexpectedEOF(ctx, "vector header")
	}
	{ // read class, typ
		v.class = int(data[0])
		oid := types.T(data[1])
		if !oid.IsFixedLen() {
			return moerr.NewNotSupported(ctx, "element type %s", oid)
		}
		v.typ = oid.ToType()
		data = data[2:]
	}
	{ // read shape
		ndim := int(types.DecodeUint32(data))
		data = data[4:]
		if len(data) < ndim*8+1 {
			return moerr.NewUnexpectedEOF(ctx, "vector shape")
		}
		v.shape = nil
		for i := 0; i < ndim; i++ {
			dim := types.DecodeInt64(data)
			if dim < 0 || dim > MaxElements {
				return moerr.NewInvalidInput(ctx, "vector dimension %d out of range", dim)
			}
			v.shape = append(v.shape, int(dim))
			data = data[8:]
		}
		if _, err := CheckedProd(ctx, v.shape, MaxElements); err != nil {
			return err
		}
		if (ndim == 0) != (v.class == CONSTANT) {
			return moerr.NewInvalidInput(ctx, "vector class %d with %d dimensions", v.class, ndim)
		}
	}
	{ // read nsp
		hasMask := data[0] == 1
		data = data[1:]
		v.nsp = nil
		if hasMask {
			if len(data) < 4 {
				return moerr.NewUnexpectedEOF(ctx, "vector mask")
			}
			size := types.DecodeUint32(data)
			data = data[4:]
			if len(data) < int(size) {
				return moerr.NewUnexpectedEOF(ctx, "vector mask")
			}
			v.nsp = nulls.New()
			if err := v.nsp.Read(data[:size]); err != nil {
				return err
			}
			data = data[size:]
		}
	}
	{ // read col
		length := v.Length() * v.typ.TypeSize()
		if int64(len(data)) != int64(v.Length())*int64(v.typ.TypeSize()) {
			return moerr.NewSizeNotMatch(ctx, "vector data has %d bytes, want %d", len(data), length)
		}
		ndata := make([]byte, length)
		copy(ndata, data)
		if length == 0 {
			v.col = makeCol(v.typ.Oid, 0)
		} else {
			v.col = colFromBytes(v.typ.Oid, ndata)
		}
	}
	return nil
}

func (v *Vector) String() string {
	switch v.typ.Oid {
	case types.T_bool:
		return vecToString[bool](v)
	case types.T_int8:
		return vecToString[int8](v)
	case types.T_int16:
		return vecToString[int16](v)
	case types.T_int32:
		return vecToString[int32](v)
	case types.T_int64:
		return vecToString[int64](v)
	case types.T_uint8:
		return vecToString[uint8](v)
	case types.T_uint16:
		return vecToString[uint16](v)
	case types.T_uint32:
		return vecToString[uint32](v)
	case types.T_uint64:
		return vecToString[uint64](v)
	case types.T_float32:
		return vecToString[float32](v)
	case types.T_float64:
		return vecToString[float64](v)
	default:
		panic("vec to string unknown types.")
	}
}

// vecToString prints v like [[0 -- 2] [-- 4 --]], masked elements as --.
func vecToString[T types.FixedSizeT](v *Vector) string {
	col := MustFixedCol[T](v)
	elem := func(i int) string {
		if v.IsMasked(i) {
			return "--"
		}
		return fmt.Sprintf("%v", col[i])
	}
	if v.IsConst() {
		return elem(0)
	}
	var sb strings.Builder
	var walk func(dim, base int)
	walk = func(dim, base int) {
		sb.WriteByte('[')
		inner := Prod(v.shape[dim+1:])
		for i := 0; i < v.shape[dim]; i++ {
			if i > 0 {
				sb.WriteByte(' ')
			}
			if dim == len(v.shape)-1 {
				sb.WriteString(elem(base + i))
			} else {
				walk(dim+1, base+i*inner)
			}
		}
		sb.WriteByte(']')
	}
	walk(0, 0)
	return sb.String()
}
