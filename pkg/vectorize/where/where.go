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
	"github.com/matrixorigin/maskedarray/pkg/container/types"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
)

// Fixed selects xs[i] where cs[i] else ys[i]. All slices have the same length.
func Fixed[T types.FixedSizeT](cs []bool, xs, ys, rs []T) []T {
	for i, c := range cs {
		if c {
			rs[i] = xs[i]
		} else {
			rs[i] = ys[i]
		}
	}
	return rs
}

// FixedScalar selects x where cs[i] else ys[i].
func FixedScalar[T types.FixedSizeT](cs []bool, x T, ys, rs []T) []T {
	for i, c := range cs {
		if c {
			rs[i] = x
		} else {
			rs[i] = ys[i]
		}
	}
	return rs
}

// ScalarFixed selects xs[i] where cs[i] else y.
func ScalarFixed[T types.FixedSizeT](cs []bool, xs []T, y T, rs []T) []T {
	for i, c := range cs {
		if c {
			rs[i] = xs[i]
		} else {
			rs[i] = y
		}
	}
	return rs
}

// Select fills the first length positions of rs from broadcast operands:
// data from xd where cf else yd, mask from xm where cf else ym, and every
// position where cm is set masked.
func Select[T types.FixedSizeT](
	cf, cm, xm, ym vector.FunctionParameterWrapper[bool],
	xd, yd vector.FunctionParameterWrapper[T],
	rs *vector.FunctionResult[T],
	length uint64) {
	for i := uint64(0); i < length; i++ {
		c, _ := cf.GetValue(i)
		var v T
		var m bool
		if c {
			v, _ = xd.GetValue(i)
			m, _ = xm.GetValue(i)
		} else {
			v, _ = yd.GetValue(i)
			m, _ = ym.GetValue(i)
		}
		if !m {
			m, _ = cm.GetValue(i)
		}
		rs.Set(i, v, m)
	}
}
