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
	"fmt"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/container/nulls"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
)

type operandKind uint8

const (
	kindOmitted operandKind = iota
	kindMasked
	kindArray
)

// Operand is an argument of Where: omitted, the masked constant, or an
// array. The zero value is omitted.
type Operand struct {
	kind operandKind
	vec  *vector.Vector
}

var (
	// Omitted marks an argument that was not supplied.
	Omitted = Operand{}
	// Masked is the masked constant.
	Masked = Operand{kind: kindMasked}
)

// Array wraps v. A nil v is Omitted.
func Array(v *vector.Vector) Operand {
	if v == nil {
		return Omitted
	}
	return Operand{kind: kindArray, vec: v}
}

func (o Operand) IsOmitted() bool {
	return o.kind == kindOmitted
}

func (o Operand) IsMasked() bool {
	return o.kind == kindMasked
}

// Vector returns the wrapped array, nil unless o is an array.
func (o Operand) Vector() *vector.Vector {
	return o.vec
}

func (o Operand) String() string {
	switch o.kind {
	case kindMasked:
		return "masked"
	case kindArray:
		return fmt.Sprintf("%s%v", o.vec.GetType(), o.vec.Shape())
	}
	return "omitted"
}

// materialize returns the array behind o. The masked constant is a float64
// scalar 0 with its mask set.
func (o Operand) materialize(ctx context.Context, name string) (*vector.Vector, error) {
	switch o.kind {
	case kindMasked:
		return vector.NewConstMasked(types.T_float64.ToType()), nil
	case kindArray:
		return o.vec, nil
	}
	return nil, moerr.NewInvalidArg(ctx, name, "omitted")
}

// GetData returns the data of o with no mask.
func GetData(ctx context.Context, o Operand) (*vector.Vector, error) {
	v, err := o.materialize(ctx, "a")
	if err != nil {
		return nil, err
	}
	return v.Data(), nil
}

// GetMaskArray returns the mask of o as a bool array of o's shape. A nomask
// array yields all false.
func GetMaskArray(ctx context.Context, o Operand) (*vector.Vector, error) {
	v, err := o.materialize(ctx, "a")
	if err != nil {
		return nil, err
	}
	m := vector.NewZeros(types.T_bool.ToType(), v.Shape())
	if v.HasMask() {
		copy(vector.MustFixedCol[bool](m), v.MaskArray())
	}
	return m, nil
}

// Filled returns the data of o with every masked element replaced by fill
// converted to o's element type.
func Filled(ctx context.Context, o Operand, fill float64) (*vector.Vector, error) {
	v, err := o.materialize(ctx, "a")
	if err != nil {
		return nil, err
	}
	nsp := v.GetNulls()
	if !nulls.Any(nsp) {
		return v.Data(), nil
	}
	w := v.Dup()
	w.SetNulls(nil)
	rows := nsp.Np.ToArray()
	switch w.GetType().Oid {
	case types.T_bool:
		fillRows(vector.MustFixedCol[bool](w), rows, fill != 0)
	case types.T_int8:
		fillRows(vector.MustFixedCol[int8](w), rows, int8(fill))
	case types.T_int16:
		fillRows(vector.MustFixedCol[int16](w), rows, int16(fill))
	case types.T_int32:
		fillRows(vector.MustFixedCol[int32](w), rows, int32(fill))
	case types.T_int64:
		fillRows(vector.MustFixedCol[int64](w), rows, int64(fill))
	case types.T_uint8:
		fillRows(vector.MustFixedCol[uint8](w), rows, uint8(fill))
	case types.T_uint16:
		fillRows(vector.MustFixedCol[uint16](w), rows, uint16(fill))
	case types.T_uint32:
		fillRows(vector.MustFixedCol[uint32](w), rows, uint32(fill))
	case types.T_uint64:
		fillRows(vector.MustFixedCol[uint64](w), rows, uint64(fill))
	case types.T_float32:
		fillRows(vector.MustFixedCol[float32](w), rows, float32(fill))
	case types.T_float64:
		fillRows(vector.MustFixedCol[float64](w), rows, fill)
	default:
		return nil, moerr.NewNotSupported(ctx, "filled for type %s", w.GetType())
	}
	return w, nil
}

func fillRows[T types.FixedSizeT](col []T, rows []uint32, val T) {
	for _, row := range rows {
		if int(row) < len(col) {
			col[row] = val
		}
	}
}
