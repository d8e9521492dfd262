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

// Package nulls wrap up functions for the manipulation of bitmap library roaring.
// A set bit marks the element at that flat index as masked.
// You can think of Nulls as a bitmap.
package nulls

import (
	"github.com/RoaringBitmap/roaring"
)

type Nulls struct {
	Np *roaring.Bitmap
}

func New() *Nulls {
	return &Nulls{Np: roaring.New()}
}

func Build(rows ...uint32) *Nulls {
	nsp := New()
	Add(nsp, rows...)
	return nsp
}

// FromBools builds a Nulls with a bit for every true entry of bs.
func FromBools(bs []bool) *Nulls {
	nsp := New()
	for i, b := range bs {
		if b {
			nsp.Np.Add(uint32(i))
		}
	}
	return nsp
}

func (nsp *Nulls) Clone() *Nulls {
	if nsp == nil {
		return nil
	}
	if nsp.Np == nil {
		return &Nulls{Np: nil}
	}
	return &Nulls{
		Np: nsp.Np.Clone(),
	}
}

// Any returns true if any bit in the Nulls is set, otherwise it will return false.
func Any(nsp *Nulls) bool {
	if nsp == nil || nsp.Np == nil {
		return false
	}
	return !nsp.Np.IsEmpty()
}

// Length returns the number of integers contained in the Nulls
func Length(nsp *Nulls) int {
	if nsp == nil || nsp.Np == nil {
		return 0
	}
	return int(nsp.Np.GetCardinality())
}

// Contains returns true if the integer is contained in the Nulls
func Contains(nsp *Nulls, row uint32) bool {
	return nsp != nil && nsp.Np != nil && nsp.Np.Contains(row)
}

func Add(nsp *Nulls, rows ...uint32) {
	if len(rows) == 0 {
		return
	}
	if nsp.Np == nil {
		nsp.Np = roaring.New()
	}
	nsp.Np.AddMany(rows)
}

// ToBools expands the bitmap into n booleans.
func ToBools(nsp *Nulls, n int) []bool {
	bs := make([]bool, n)
	if !Any(nsp) {
		return bs
	}
	itr := nsp.Np.Iterator()
	for itr.HasNext() {
		row := int(itr.Next())
		if row >= n {
			break
		}
		bs[row] = true
	}
	return bs
}

func (nsp *Nulls) Show() ([]byte, error) {
	if nsp.Np == nil {
		return nil, nil
	}
	return nsp.Np.ToBytes()
}

func (nsp *Nulls) Read(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	nsp.Np = roaring.New()
	return nsp.Np.UnmarshalBinary(data)
}
