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
	"math"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
)

// Prod returns the number of elements of shape, 1 for a 0-d shape.
// MaxElements bounds the element count of a vector. Mask bits are
// addressed by uint32 flat indices.
const MaxElements int64 = 1 << 32

// CheckedProd returns the number of elements of shape. It fails with
// ErrInvalidInput on a negative dimension or when the count would exceed
// limit, checking before each multiplication.
func CheckedProd(ctx context.Context, shape []int, limit int64) (int, error) {
	if limit > math.MaxInt {
		limit = math.MaxInt
	}
	empty := false
	for _, d := range shape {
		if d < 0 {
			return 0, moerr.NewInvalidInput(ctx, "negative dimension in shape %v", shape)
		}
		if d == 0 {
			empty = true
		}
	}
	if empty {
		return 0, nil
	}
	n := int64(1)
	for _, d := range shape {
		if int64(d) > limit/n {
			return 0, moerr.NewInvalidInput(ctx, "shape %v has more than %d elements", shape, limit)
		}
		n *= int64(d)
	}
	return int(n), nil
}

// Prod returns the number of elements of a shape already known to be valid.
func Prod(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// Broadcast returns the shape all the given shapes broadcast to. Shapes are
// aligned on their trailing dimensions, and each pair of dimensions must be
// equal or one of them must be 1.
func Broadcast(ctx context.Context, shapes ...[]int) ([]int, error) {
	ndim := 0
	for _, s := range shapes {
		if len(s) > ndim {
			ndim = len(s)
		}
	}
	out := make([]int, ndim)
	for i := range out {
		out[i] = 1
	}
	for _, s := range shapes {
		off := ndim - len(s)
		for i, d := range s {
			switch {
			case d == out[off+i] || d == 1:
			case out[off+i] == 1:
				out[off+i] = d
			default:
				return nil, moerr.NewInvalidInput(ctx, "operands could not be broadcast together with shapes %v", shapes)
			}
		}
	}
	if ndim == 0 {
		return nil, nil
	}
	return out, nil
}

// BroadcastOffsets maps every flat index of dst to the flat index of src
// it reads from when src is broadcast to dst. src must broadcast to dst.
func BroadcastOffsets(src, dst []int) []int {
	n := Prod(dst)
	offs := make([]int, n)
	if n == 0 {
		return offs
	}
	nd := len(dst)
	strides := make([]int, nd)
	stride := 1
	for i := len(src) - 1; i >= 0; i-- {
		if src[i] != 1 {
			strides[nd-len(src)+i] = stride
		}
		stride *= src[i]
	}
	idx := make([]int, nd)
	off := 0
	for k := 0; k < n; k++ {
		offs[k] = off
		for d := nd - 1; d >= 0; d-- {
			idx[d]++
			off += strides[d]
			if idx[d] < dst[d] {
				break
			}
			off -= strides[d] * idx[d]
			idx[d] = 0
		}
	}
	return offs
}

// SameShape reports whether a and b have identical dimensions.
func SameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Unravel converts the flat index i into coordinates of shape.
func Unravel(i int, shape []int, coords []int) {
	for d := len(shape) - 1; d >= 0; d-- {
		coords[d] = i % shape[d]
		i /= shape[d]
	}
}
