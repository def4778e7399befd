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
	"math"

	"github.com/pkg/errors"
)

// Writer encodes big-endian JDWP primitives to an in-memory buffer. Unlike
// Reader, Writer always appends to a growable slice, so there's no sticky
// I/O error to report; Bytes returns the accumulated encoding.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// Data appends p verbatim.
func (w *Writer) Data(p []byte) { w.buf = append(w.buf, p...) }

// Bool appends a single byte, 1 for true and 0 for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

// Int8 appends a signed 8-bit integer.
func (w *Writer) Int8(v int8) { w.Uint8(uint8(v)) }

// Uint8 appends an unsigned 8-bit integer.
func (w *Writer) Uint8(v uint8) { w.buf = append(w.buf, v) }

// Int16 appends a signed, big-endian 16-bit integer.
func (w *Writer) Int16(v int16) { w.Uint16(uint16(v)) }

// Uint16 appends an unsigned, big-endian 16-bit integer.
func (w *Writer) Uint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// Int32 appends a signed, big-endian 32-bit integer.
func (w *Writer) Int32(v int32) { w.Uint32(uint32(v)) }

// Uint32 appends an unsigned, big-endian 32-bit integer.
func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// Int64 appends a signed, big-endian 64-bit integer.
func (w *Writer) Int64(v int64) { w.Uint64(uint64(v)) }

// Uint64 appends an unsigned, big-endian 64-bit integer.
func (w *Writer) Uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// Float32 appends a big-endian, IEEE-754 single precision float.
func (w *Writer) Float32(v float32) { w.Uint32(math.Float32bits(v)) }

// Float64 appends a big-endian, IEEE-754 double precision float.
func (w *Writer) Float64(v float64) { w.Uint64(math.Float64bits(v)) }

// Uint appends an unsigned integer of the given bit width (8, 16, 32 or 64),
// truncating v. Used for JDWP's variable-width object and reference-type
// identifiers.
func (w *Writer) Uint(bits int, v uint64) {
	switch bits {
	case 8:
		w.Uint8(uint8(v))
	case 16:
		w.Uint16(uint16(v))
	case 32:
		w.Uint32(uint32(v))
	case 64:
		w.Uint64(v)
	default:
		panic(errors.Errorf("unsupported id width %d bits", bits))
	}
}

// String appends a 4-byte big-endian length prefix followed by the UTF-8
// bytes of s.
func (w *Writer) String(s string) {
	w.Uint32(uint32(len(s)))
	w.Data([]byte(s))
}
