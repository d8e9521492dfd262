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

package nonzero

import (
	"github.com/matrixorigin/maskedarray/pkg/container/nulls"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
)

// Rows returns the flat indices i where cs[i] is true and i is not in nsp.
func Rows(cs []bool, nsp *nulls.Nulls) []uint64 {
	rows := make([]uint64, 0, len(cs))
	if !nulls.Any(nsp) {
		for i, c := range cs {
			if c {
				rows = append(rows, uint64(i))
			}
		}
		return rows
	}
	for i, c := range cs {
		if c && !nulls.Contains(nsp, uint32(i)) {
			rows = append(rows, uint64(i))
		}
	}
	return rows
}

// Unravel converts flat row-major indices into one coordinate slice per
// dimension of shape.
func Unravel(rows []uint64, shape []int) [][]int64 {
	rs := make([][]int64, len(shape))
	for d := range rs {
		rs[d] = make([]int64, len(rows))
	}
	coords := make([]int, len(shape))
	for k, row := range rows {
		vector.Unravel(int(row), shape, coords)
		for d, c := range coords {
			rs[d][k] = int64(c)
		}
	}
	return rs
}

// Nonzero returns the coordinates of the truthy, unmasked entries of an
// n-d array with the given shape.
func Nonzero(cs []bool, nsp *nulls.Nulls, shape []int) [][]int64 {
	return Unravel(Rows(cs, nsp), shape)
}
