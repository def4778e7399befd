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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Uint8(0xAB)
	w.Int8(-1)
	w.Uint16(0x1234)
	w.Int16(-2)
	w.Uint32(0xDEADBEEF)
	w.Int32(-3)
	w.Uint64(0x0123456789ABCDEF)
	w.Int64(-4)
	w.Float32(1.5)
	w.Float64(2.5)
	w.Bool(true)
	w.String("hello")

	r := NewReader(bytes.NewReader(w.Bytes()))
	assert.Equal(t, uint8(0xAB), r.Uint8())
	assert.Equal(t, int8(-1), r.Int8())
	assert.Equal(t, uint16(0x1234), r.Uint16())
	assert.Equal(t, int16(-2), r.Int16())
	assert.Equal(t, uint32(0xDEADBEEF), r.Uint32())
	assert.Equal(t, int32(-3), r.Int32())
	assert.Equal(t, uint64(0x0123456789ABCDEF), r.Uint64())
	assert.Equal(t, int64(-4), r.Int64())
	assert.Equal(t, float32(1.5), r.Float32())
	assert.Equal(t, float64(2.5), r.Float64())
	assert.Equal(t, true, r.Bool())
	assert.Equal(t, "hello", r.String())
	require.NoError(t, r.Err())
}

func TestBigEndianByteOrder(t *testing.T) {
	w := NewWriter()
	w.Uint32(0x12345678)
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, w.Bytes())
}

func TestEncodeIsDeterministic(t *testing.T) {
	build := func() []byte {
		w := NewWriter()
		w.Uint32(7)
		w.String("same bytes twice")
		return w.Bytes()
	}
	assert.Equal(t, build(), build())
}

func TestReaderRefusesOverRead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	r.Uint32()
	require.Error(t, r.Err())
	// Once in the error state, every subsequent accessor returns zero
	// rather than touching the stream again.
	assert.Equal(t, uint8(0), r.Uint8())
	assert.Equal(t, "", r.String())
}

func TestReaderRejectsInvalidUTF8(t *testing.T) {
	w := NewWriter()
	w.Uint32(2)
	w.Data([]byte{0xff, 0xfe})
	r := NewReader(bytes.NewReader(w.Bytes()))
	got := r.String()
	assert.Equal(t, "", got)
	require.Error(t, r.Err())
}

func TestVariableWidthID(t *testing.T) {
	w := NewWriter()
	w.Uint(32, 0xCAFEBABE)
	r := NewReader(bytes.NewReader(w.Bytes()))
	assert.Equal(t, uint64(0xCAFEBABE), r.Uint(32))
}
