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

package types

import (
	"context"
	"strconv"
	"strings"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
)

type T uint8

const (
	T_any T = 0

	// bool family
	T_bool T = 10

	// numeric/integer family
	T_int8  T = 20
	T_int16 T = 21
	T_int32 T = 22
	T_int64 T = 23

	T_uint8  T = 25
	T_uint16 T = 26
	T_uint32 T = 27
	T_uint64 T = 28

	// numeric/float family
	T_float32 T = 30
	T_float64 T = 31
)

type Type struct {
	Oid T

	// Size of the element in bytes.
	Size int32
}

type Ints interface {
	int8 | int16 | int32 | int64
}

type UInts interface {
	uint8 | uint16 | uint32 | uint64
}

type Floats interface {
	float32 | float64
}

type Number interface {
	Ints | UInts | Floats
}

type FixedSizeT interface {
	bool | Number
}

var Types = map[string]T{
	"bool": T_bool,

	"int8":  T_int8,
	"int16": T_int16,
	"int32": T_int32,
	"int64": T_int64,

	"uint8":  T_uint8,
	"uint16": T_uint16,
	"uint32": T_uint32,
	"uint64": T_uint64,

	"float32": T_float32,
	"float64": T_float64,
}

func New(oid T) Type {
	return Type{Oid: oid, Size: int32(oid.TypeLen())}
}

// ParseT maps a type name such as "int64" to its T.
func ParseT(ctx context.Context, name string) (T, error) {
	if t, ok := Types[strings.ToLower(name)]; ok {
		return t, nil
	}
	return T_any, moerr.NewNotSupported(ctx, "element type %q", name)
}

func (t Type) TypeSize() int {
	return int(t.Size)
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t Type) Eq(b Type) bool {
	return t.Oid == b.Oid
}

func (t T) ToType() Type {
	return New(t)
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "INT8"
	case T_int16:
		return "INT16"
	case T_int32:
		return "INT32"
	case T_int64:
		return "INT64"
	case T_uint8:
		return "UINT8"
	case T_uint16:
		return "UINT16"
	case T_uint32:
		return "UINT32"
	case T_uint64:
		return "UINT64"
	case T_float32:
		return "FLOAT32"
	case T_float64:
		return "FLOAT64"
	}
	return "unknown_type:" + strconv.Itoa(int(t))
}

// TypeLen returns type's length whose type oid is T
func (t T) TypeLen() int {
	switch t {
	case T_bool, T_int8, T_uint8:
		return 1
	case T_int16, T_uint16:
		return 2
	case T_int32, T_uint32, T_float32:
		return 4
	case T_int64, T_uint64, T_float64:
		return 8
	}
	return 0
}

func (t T) IsInteger() bool {
	return t.IsSignedInt() || t.IsUnsignedInt()
}

func (t T) IsSignedInt() bool {
	return t >= T_int8 && t <= T_int64
}

func (t T) IsUnsignedInt() bool {
	return t >= T_uint8 && t <= T_uint64
}

func (t T) IsFloat() bool {
	return t == T_float32 || t == T_float64
}

// IsFixedLen reports whether t is an element type a Vector can hold.
func (t T) IsFixedLen() bool {
	return t == T_bool || t.IsInteger() || t.IsFloat()
}

// TypeOf returns the T of the Go type parameter.
func TypeOf[E FixedSizeT]() T {
	var v E
	switch any(v).(type) {
	case bool:
		return T_bool
	case int8:
		return T_int8
	case int16:
		return T_int16
	case int32:
		return T_int32
	case int64:
		return T_int64
	case uint8:
		return T_uint8
	case uint16:
		return T_uint16
	case uint32:
		return T_uint32
	case uint64:
		return T_uint64
	case float32:
		return T_float32
	case float64:
		return T_float64
	}
	return T_any
}
