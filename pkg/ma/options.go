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

import "github.com/matrixorigin/maskedarray/pkg/container/vector"

// DefaultMaxElements bounds a broadcast result.
const DefaultMaxElements = vector.MaxElements

type options struct {
	shrink      bool
	maxElements int64
}

// Option configures Where.
type Option func(*options)

// WithShrink controls whether an all-false result mask collapses to nomask.
// Default true.
func WithShrink(shrink bool) Option {
	return func(o *options) {
		o.shrink = shrink
	}
}

// WithMaxElements limits the number of elements of the broadcast result.
// Values outside (0, 1<<32] are ignored.
func WithMaxElements(n int64) Option {
	return func(o *options) {
		if n > 0 && n <= DefaultMaxElements {
			o.maxElements = n
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		shrink:      true,
		maxElements: DefaultMaxElements,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
