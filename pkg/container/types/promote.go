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

package types

// signedOfSize maps a byte width to the signed integer of that width.
var signedOfSize = map[int]T{
	1: T_int8,
	2: T_int16,
	4: T_int32,
	8: T_int64,
}

// Promote returns the smallest type both a and b can be cast to without
// losing range, following the safe-casting lattice bool < integers < floats.
func Promote(a, b T) T {
	if a == b {
		return a
	}
	if a == T_bool {
		return b
	}
	if b == T_bool {
		return a
	}
	if a.IsFloat() || b.IsFloat() {
		return promoteFloat(a, b)
	}
	if a.IsSignedInt() == b.IsSignedInt() {
		if a.TypeLen() >= b.TypeLen() {
			return a
		}
		return b
	}
	// signed with unsigned
	signed, unsigned := a, b
	if a.IsUnsignedInt() {
		signed, unsigned = b, a
	}
	if signed.TypeLen() > unsigned.TypeLen() {
		return signed
	}
	if unsigned == T_uint64 {
		return T_float64
	}
	return signedOfSize[unsigned.TypeLen()*2]
}

func promoteFloat(a, b T) T {
	if a.IsFloat() && b.IsFloat() {
		if a == T_float64 || b == T_float64 {
			return T_float64
		}
		return T_float32
	}
	f, i := a, b
	if b.IsFloat() {
		f, i = b, a
	}
	if f == T_float32 && i.TypeLen() <= 2 {
		return T_float32
	}
	return T_float64
}
