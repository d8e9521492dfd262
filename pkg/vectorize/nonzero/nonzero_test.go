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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/maskedarray/pkg/container/nulls"
)

func TestRows(t *testing.T) {
	cs := []bool{true, false, true, true, false}
	require.Equal(t, []uint64{0, 2, 3}, Rows(cs, nil))
	require.Equal(t, []uint64{0, 2, 3}, Rows(cs, nulls.New()))
	require.Equal(t, []uint64{0, 3}, Rows(cs, nulls.Build(1, 2)))
	require.Empty(t, Rows(nil, nil))
}

func TestNonzero(t *testing.T) {
	shape := []int{2, 3}
	cs := []bool{
		false, true, false,
		true, false, true,
	}
	rs := Nonzero(cs, nil, shape)
	require.Equal(t, [][]int64{{0, 1, 1}, {1, 0, 2}}, rs)

	rs = Nonzero(cs, nulls.Build(5), shape)
	require.Equal(t, [][]int64{{0, 1}, {1, 0}}, rs)

	rs = Nonzero(make([]bool, 6), nil, shape)
	require.Equal(t, [][]int64{{}, {}}, rs)
}

func TestUnravel3d(t *testing.T) {
	shape := []int{2, 2, 2}
	rs := Unravel([]uint64{0, 3, 7}, shape)
	require.Equal(t, [][]int64{{0, 0, 1}, {0, 1, 1}, {0, 1, 1}}, rs)
}
