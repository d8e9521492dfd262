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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/pierrec/lz4"

	"github.com/matrixorigin/maskedarray/pkg/common/moerr"
	"github.com/matrixorigin/maskedarray/pkg/container/types"
	"github.com/matrixorigin/maskedarray/pkg/container/vector"
	"github.com/matrixorigin/maskedarray/pkg/ma"
)

const (
	resultArray   = 0
	resultIndices = 1

	flagCompressed = 1
)

var magic = []byte("MAW\x01")

// WriteText writes the selection of case name as one line:
// name: data, or name: indices.
func WriteText(w io.Writer, name string, sel *ma.Selection) error {
	var err error
	if sel.Array != nil {
		_, err = fmt.Fprintf(w, "%s: %s\n", name, sel.Array)
	} else {
		_, err = fmt.Fprintf(w, "%s: %v\n", name, sel.Indices)
	}
	return err
}

type jsonResult struct {
	Name    string      `json:"name"`
	Type    string      `json:"type,omitempty"`
	Shape   []int       `json:"shape,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Mask    interface{} `json:"mask,omitempty"`
	Indices [][]int64   `json:"indices,omitempty"`
}

// WriteJSON writes the selection of case name as one json object per line.
// A nomask result has mask false, a dense mask is a flat bool list.
// Non-finite floats are written as "inf", "-inf" or "nan".
func WriteJSON(w io.Writer, name string, sel *ma.Selection) error {
	rs := jsonResult{Name: name, Indices: sel.Indices}
	if v := sel.Array; v != nil {
		rs.Type = v.GetType().String()
		rs.Shape = v.Shape()
		rs.Data = columnOf(v)
		if v.HasMask() {
			rs.Mask = v.MaskArray()
		} else {
			rs.Mask = false
		}
	}
	return json.NewEncoder(w).Encode(&rs)
}

func columnOf(v *vector.Vector) interface{} {
	switch v.GetType().Oid {
	case types.T_bool:
		return vector.MustFixedCol[bool](v)
	case types.T_int8:
		return vector.MustFixedCol[int8](v)
	case types.T_int16:
		return vector.MustFixedCol[int16](v)
	case types.T_int32:
		return vector.MustFixedCol[int32](v)
	case types.T_int64:
		return vector.MustFixedCol[int64](v)
	case types.T_uint8:
		// []uint8 would be encoded as base64
		col := vector.MustFixedCol[uint8](v)
		rs := make([]uint16, len(col))
		for i, x := range col {
			rs[i] = uint16(x)
		}
		return rs
	case types.T_uint16:
		return vector.MustFixedCol[uint16](v)
	case types.T_uint32:
		return vector.MustFixedCol[uint32](v)
	case types.T_uint64:
		return vector.MustFixedCol[uint64](v)
	case types.T_float32:
		return floatColumn(vector.MustFixedCol[float32](v))
	case types.T_float64:
		return floatColumn(vector.MustFixedCol[float64](v))
	}
	return nil
}

// floatColumn returns col unchanged when every element is finite. Otherwise
// the non-finite elements become the strings "inf", "-inf" and "nan",
// which json cannot carry as numbers.
func floatColumn[T types.Floats](col []T) interface{} {
	finite := true
	for _, x := range col {
		if math.IsInf(float64(x), 0) || math.IsNaN(float64(x)) {
			finite = false
			break
		}
	}
	if finite {
		return col
	}
	rs := make([]interface{}, len(col))
	for i, x := range col {
		f := float64(x)
		switch {
		case math.IsNaN(f):
			rs[i] = "nan"
		case math.IsInf(f, 1):
			rs[i] = "inf"
		case math.IsInf(f, -1):
			rs[i] = "-inf"
		default:
			rs[i] = x
		}
	}
	return rs
}

// WriteBinary writes the selection in binary form, lz4 compressed if
// compress is set.
func WriteBinary(w io.Writer, sel *ma.Selection, compress bool) error {
	body, err := MarshalSelection(sel)
	if err != nil {
		return err
	}
	header := append([]byte(nil), magic...)
	if compress {
		header = append(header, flagCompressed)
	} else {
		header = append(header, 0)
	}
	if _, err = w.Write(header); err != nil {
		return err
	}
	if !compress {
		_, err = w.Write(body)
		return err
	}
	zw := lz4.NewWriter(w)
	if _, err = zw.Write(body); err != nil {
		return err
	}
	return zw.Close()
}

// ReadBinary reads a selection written by WriteBinary.
func ReadBinary(ctx context.Context, r io.Reader) (*ma.Selection, error) {
	header := make([]byte, len(magic)+1)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	if !bytes.Equal(header[:len(magic)], magic) {
		return nil, moerr.NewInvalidInput(ctx, "not a where result")
	}
	if header[len(magic)]&flagCompressed != 0 {
		r = lz4.NewReader(r)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, moerr.ConvertGoError(ctx, err)
	}
	return UnmarshalSelection(ctx, body)
}

// MarshalSelection encodes sel: a kind byte, then the array or the
// indices as ndim, count and ndim*count int64s.
func MarshalSelection(sel *ma.Selection) ([]byte, error) {
	var buf bytes.Buffer
	if sel.Array != nil {
		buf.WriteByte(resultArray)
		data, err := sel.Array.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		return buf.Bytes(), nil
	}
	buf.WriteByte(resultIndices)
	ndim := uint32(len(sel.Indices))
	buf.Write(types.EncodeUint32(&ndim))
	count := uint32(0)
	if ndim > 0 {
		count = uint32(len(sel.Indices[0]))
	}
	buf.Write(types.EncodeUint32(&count))
	for _, idx := range sel.Indices {
		buf.Write(types.EncodeSlice(idx))
	}
	return buf.Bytes(), nil
}

func UnmarshalSelection(ctx context.Context, data []byte) (*ma.Selection, error) {
	if len(data) == 0 {
		return nil, moerr.NewUnexpectedEOF(ctx, "selection")
	}
	kind := data[0]
	data = data[1:]
	switch kind {
	case resultArray:
		v := new(vector.Vector)
		if err := v.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return &ma.Selection{Array: v}, nil
	case resultIndices:
		if len(data) < 8 {
			return nil, moerr.NewUnexpectedEOF(ctx, "selection indices")
		}
		ndim := int(types.DecodeUint32(data))
		count := int(types.DecodeUint32(data[4:]))
		data = data[8:]
		if len(data) != ndim*count*8 {
			return nil, moerr.NewSizeNotMatch(ctx, "indices have %d bytes, want %d", len(data), ndim*count*8)
		}
		indices := make([][]int64, ndim)
		for d := range indices {
			indices[d] = make([]int64, count)
			if count > 0 {
				copy(indices[d], types.DecodeSlice[int64](data[:count*8]))
			}
			data = data[count*8:]
		}
		return &ma.Selection{Indices: indices}, nil
	}
	return nil, moerr.NewInvalidInput(ctx, "unknown selection kind %d", kind)
}
