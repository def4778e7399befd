// Copyright (C) 2017 Google Inc.
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

package wire

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Reader decodes big-endian JDWP primitives from an underlying io.Reader.
// All accessors are checked: reading past the end of the stream sets a
// sticky error, after which every accessor returns the zero value.
type Reader struct {
	r   io.Reader
	tmp [8]byte
	err error
}

// NewReader wraps r with checked big-endian accessors.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered while reading, or nil if all
// reads so far have succeeded.
func (r *Reader) Err() error { return r.err }

// Data fills p entirely from the stream, or sets the sticky error.
func (r *Reader) Data(p []byte) {
	if r.err != nil || len(p) == 0 {
		return
	}
	_, err := io.ReadFull(r.r, p)
	if err != nil {
		r.err = errors.Wrap(err, "short read")
	}
}

func (r *Reader) fill(n int) []byte {
	if r.err != nil {
		return r.tmp[:n]
	}
	_, err := io.ReadFull(r.r, r.tmp[:n])
	if err != nil {
		r.err = errors.Wrap(err, "short read")
	}
	return r.tmp[:n]
}

// Bool reads a single byte, treating any non-zero value as true.
func (r *Reader) Bool() bool { return r.Uint8() != 0 }

// Int8 reads a signed 8-bit integer.
func (r *Reader) Int8() int8 { return int8(r.Uint8()) }

// Uint8 reads an unsigned 8-bit integer.
func (r *Reader) Uint8() uint8 {
	b := r.fill(1)
	if r.err != nil {
		return 0
	}
	return b[0]
}

// Int16 reads a signed, big-endian 16-bit integer.
func (r *Reader) Int16() int16 { return int16(r.Uint16()) }

// Uint16 reads an unsigned, big-endian 16-bit integer.
func (r *Reader) Uint16() uint16 {
	b := r.fill(2)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// Int32 reads a signed, big-endian 32-bit integer.
func (r *Reader) Int32() int32 { return int32(r.Uint32()) }

// Uint32 reads an unsigned, big-endian 32-bit integer.
func (r *Reader) Uint32() uint32 {
	b := r.fill(4)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Int64 reads a signed, big-endian 64-bit integer.
func (r *Reader) Int64() int64 { return int64(r.Uint64()) }

// Uint64 reads an unsigned, big-endian 64-bit integer.
func (r *Reader) Uint64() uint64 {
	b := r.fill(8)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// Float32 reads a big-endian, IEEE-754 single precision float.
func (r *Reader) Float32() float32 {
	return math.Float32frombits(r.Uint32())
}

// Float64 reads a big-endian, IEEE-754 double precision float.
func (r *Reader) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}

// Uint reads an unsigned integer of the given bit width (8, 16, 32 or 64),
// returning the result widened to uint64. Used for JDWP's variable-width
// object and reference-type identifiers.
func (r *Reader) Uint(bits int) uint64 {
	switch bits {
	case 8:
		return uint64(r.Uint8())
	case 16:
		return uint64(r.Uint16())
	case 32:
		return uint64(r.Uint32())
	case 64:
		return r.Uint64()
	default:
		if r.err == nil {
			r.err = errors.Errorf("unsupported id width %d bits", bits)
		}
		return 0
	}
}

// String reads a 4-byte big-endian length prefix followed by that many
// bytes of UTF-8 text.
func (r *Reader) String() string {
	n := r.Uint32()
	if r.err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	r.Data(buf)
	if r.err != nil {
		return ""
	}
	if !utf8.Valid(buf) {
		r.err = errors.New("string field is not valid utf-8")
		return ""
	}
	return string(buf)
}
