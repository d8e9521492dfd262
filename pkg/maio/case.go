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

package maio

import (
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/container/nulls"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
	"github.com/matrixorigin/maskedarray/pkg/ma"
)

const (
	KindArray  = "array"
	KindMasked = "masked"
)

// OperandTable describes one operand of a case file. An absent table is
// the omitted operand.
type OperandTable struct {
	// array or masked. default: array
	Kind string `toml:"kind"`

	// element type name, e.g. int64 or float32
	Type string `toml:"type"`

	// dimensions, empty means 1-d of len(data)
	Shape []int `toml:"shape"`

	// Scalar makes a 0-d array of the only element of data.
	Scalar bool `toml:"scalar"`

	Data []interface{} `toml:"data"`

	// per element mask, empty means nomask
	Mask []bool `toml:"mask"`
}

// Case is one where evaluation read from a toml file.
type Case struct {
	Name string `toml:"name"`

	Condition *OperandTable `toml:"condition"`
	X         *OperandTable `toml:"x"`
	Y         *OperandTable `toml:"y"`

	// overrides where.shrink-mask for this case
	ShrinkMask *bool `toml:"shrink-mask"`
}

// LoadCase decodes the case file filename. The case is named after the
// file unless it names itself.
func LoadCase(ctx context.Context, filename string) (*Case, error) {
	f, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, moerr.NewFileNotFound(ctx, filename)
		}
		return nil, moerr.ConvertGoError(ctx, err)
	}
	defer f.Close()
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return DecodeCase(ctx, f, name)
}

// DecodeCase decodes a case from r, naming it name if the case has no name.
func DecodeCase(ctx context.Context, r io.Reader, name string) (*Case, error) {
	c := &Case{}
	if _, err := toml.NewDecoder(r).Decode(c); err != nil {
		return nil, moerr.NewParseError(ctx, "case %s: %v", name, err)
	}
	if c.Name == "" {
		c.Name = name
	}
	if c.Condition == nil {
		return nil, moerr.NewInvalidInput(ctx, "case %s has no condition", c.Name)
	}
	return c, nil
}

// Operands builds the condition, x and y operands of c.
func (c *Case) Operands(ctx context.Context) (cond, x, y ma.Operand, err error) {
	if cond, err = c.Condition.Operand(ctx); err != nil {
		return
	}
	if x, err = c.X.Operand(ctx); err != nil {
		return
	}
	y, err = c.Y.Operand(ctx)
	return
}

// Operand builds the operand s describes. A nil s is ma.Omitted.
func (s *OperandTable) Operand(ctx context.Context) (ma.Operand, error) {
	if s == nil {
		return ma.Omitted, nil
	}
	switch s.Kind {
	case KindMasked:
		return ma.Masked, nil
	case "", KindArray:
	default:
		return ma.Omitted, moerr.NewInvalidInput(ctx, "unknown operand kind %q", s.Kind)
	}
	v, err := s.Vector(ctx)
	if err != nil {
		return ma.Omitted, err
	}
	return ma.Array(v), nil
}

// Vector builds the array s describes.
func (s *OperandTable) Vector(ctx context.Context) (*vector.Vector, error) {
	name := s.Type
	if name == "" {
		name = inferType(s.Data)
	}
	oid, err := types.ParseT(ctx, name)
	if err != nil {
		return nil, err
	}
	if s.Scalar && len(s.Data) != 1 {
		return nil, moerr.NewInvalidInput(ctx, "scalar operand has %d elements", len(s.Data))
	}
	var v *vector.Vector
	switch oid {
	case types.T_bool:
		v, err = buildVector(ctx, s, toBool)
	case types.T_int8:
		v, err = buildVector(ctx, s, toNumber[int8])
	case types.T_int16:
		v, err = buildVector(ctx, s, toNumber[int16])
	case types.T_int32:
		v, err = buildVector(ctx, s, toNumber[int32])
	case types.T_int64:
		v, err = buildVector(ctx, s, toNumber[int64])
	case types.T_uint8:
		v, err = buildVector(ctx, s, toNumber[uint8])
	case types.T_uint16:
		v, err = buildVector(ctx, s, toNumber[uint16])
	case types.T_uint32:
		v, err = buildVector(ctx, s, toNumber[uint32])
	case types.T_uint64:
		v, err = buildVector(ctx, s, toNumber[uint64])
	case types.T_float32:
		v, err = buildVector(ctx, s, toNumber[float32])
	case types.T_float64:
		v, err = buildVector(ctx, s, toNumber[float64])
	default:
		return nil, moerr.NewNotSupported(ctx, "element type %s", oid)
	}
	if err != nil {
		return nil, err
	}
	if len(s.Mask) != 0 {
		if len(s.Mask) != v.Length() {
			return nil, moerr.NewSizeNotMatch(ctx, "mask has %d elements, data has %d", len(s.Mask), v.Length())
		}
		v.SetNulls(nulls.FromBools(s.Mask))
	}
	return v, nil
}

func buildVector[T types.FixedSizeT](ctx context.Context, s *OperandTable, conv func(context.Context, interface{}) (T, error)) (*vector.Vector, error) {
	col := make([]T, len(s.Data))
	for i, d := range s.Data {
		val, err := conv(ctx, d)
		if err != nil {
			return nil, err
		}
		col[i] = val
	}
	if s.Scalar {
		return vector.NewConst(col[0]), nil
	}
	return vector.NewVec(ctx, col, s.Shape...)
}

func toBool(ctx context.Context, d interface{}) (bool, error) {
	switch v := d.(type) {
	case bool:
		return v, nil
	case int64:
		return v != 0, nil
	case float64:
		return v != 0, nil
	}
	return false, moerr.NewInvalidInput(ctx, "value %v is not a bool", d)
}

// toNumber converts a toml value to T. Integers must fit T exactly and
// floats must be integral and in range for integer T.
func toNumber[T types.Number](ctx context.Context, d interface{}) (T, error) {
	switch v := d.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int64:
		if r, ok := fromInt64[T](v); ok {
			return r, nil
		}
	case float64:
		if r, ok := fromFloat64[T](v); ok {
			return r, nil
		}
	default:
		return 0, moerr.NewInvalidInput(ctx, "value %v is not a number", d)
	}
	return 0, moerr.NewOutOfRange(ctx, types.TypeOf[T]().String(), "value %v", d)
}

func fromInt64[T types.Number](v int64) (T, bool) {
	r := T(v)
	if isFloat(r) {
		return r, true
	}
	return r, int64(r) == v && (r < 0) == (v < 0)
}

func fromUint64[T types.Number](v uint64) (T, bool) {
	r := T(v)
	return r, uint64(r) == v && r >= 0
}

func fromFloat64[T types.Number](v float64) (T, bool) {
	var zero T
	if isFloat(zero) {
		// only float32 can overflow
		r := T(v)
		return r, math.IsInf(v, 0) || !math.IsInf(float64(r), 0)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	switch {
	case v >= -(1<<63) && v < 1<<63:
		return fromInt64[T](int64(v))
	case v >= 0 && v < 1<<64:
		return fromUint64[T](uint64(v))
	}
	return 0, false
}

func isFloat(v interface{}) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

// inferType picks bool, int64 or float64 from the toml values.
func inferType(data []interface{}) string {
	name := "bool"
	for _, d := range data {
		switch d.(type) {
		case float64:
			return "float64"
		case int64:
			name = "int64"
		}
	}
	return name
}
