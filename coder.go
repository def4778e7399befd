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

package jdwp

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/kestrelhq/jdwp/internal/wire"
)

func unbox(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface {
		return v.Elem()
	}
	return v
}

// encode writes the value v to w, using the JDWP encoding scheme. Variable
// width identifiers are sized according to c.idSizes, learned from the
// peer's IDSizes reply during Open. encode never fails on its own account —
// Writer is an in-memory buffer — so it panics on a type this client
// doesn't know how to marshal rather than threading an error return through
// every recursive call.
func (c *Connection) encode(w *wire.Writer, v reflect.Value) {
	t := v.Type()
	o := v.Interface()

	switch v.Type() {
	case reflect.TypeOf((*EventModifier)(nil)).Elem():
		// EventModifiers are prefixed with their 1-byte modKind.
		w.Uint8(o.(EventModifier).modKind())

	case reflect.TypeOf((*Value)(nil)).Elem():
		// Values are prefixed with their 1-byte tag.
		switch o.(type) {
		case ArrayID:
			w.Uint8(uint8(TagArray))
		case int8:
			w.Uint8(uint8(TagByte))
		case Char:
			w.Uint8(uint8(TagChar))
		case ObjectID:
			w.Uint8(uint8(TagObject))
		case float32:
			w.Uint8(uint8(TagFloat))
		case float64:
			w.Uint8(uint8(TagDouble))
		case int, int32:
			w.Uint8(uint8(TagInt))
		case int16:
			w.Uint8(uint8(TagShort))
		case int64:
			w.Uint8(uint8(TagLong))
		case nil:
			w.Uint8(uint8(TagVoid))
		case bool:
			w.Uint8(uint8(TagBoolean))
		case StringID:
			w.Uint8(uint8(TagString))
		case ThreadID:
			w.Uint8(uint8(TagThread))
		case ThreadGroupID:
			w.Uint8(uint8(TagThreadGroup))
		case ClassLoaderID:
			w.Uint8(uint8(TagClassLoader))
		case ClassObjectID:
			w.Uint8(uint8(TagClassObject))
		default:
			panic(fmt.Errorf("got Value of type %T", o))
		}
	}

	switch o := o.(type) {
	case ReferenceTypeID, ClassID, InterfaceID, ArrayTypeID:
		w.Uint(int(c.idSizes.ReferenceTypeIDSize)*8, unbox(v).Uint())

	case MethodID:
		w.Uint(int(c.idSizes.MethodIDSize)*8, unbox(v).Uint())

	case FieldID:
		w.Uint(int(c.idSizes.FieldIDSize)*8, unbox(v).Uint())

	case ObjectID, ThreadID, ThreadGroupID, StringID, ClassLoaderID, ClassObjectID, ArrayID:
		w.Uint(int(c.idSizes.ObjectIDSize)*8, unbox(v).Uint())

	case []byte: // Optimization: avoid per-byte reflection.
		w.Uint32(uint32(len(o)))
		w.Data(o)

	default:
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface:
			c.encode(w, v.Elem())
		case reflect.String:
			w.String(v.String())
		case reflect.Uint8:
			w.Uint8(uint8(v.Uint()))
		case reflect.Uint64:
			w.Uint64(v.Uint())
		case reflect.Int8:
			w.Int8(int8(v.Int()))
		case reflect.Int16:
			w.Int16(int16(v.Int()))
		case reflect.Int32, reflect.Int:
			w.Int32(int32(v.Int()))
		case reflect.Int64:
			w.Int64(v.Int())
		case reflect.Float32:
			w.Float32(float32(v.Float()))
		case reflect.Float64:
			w.Float64(v.Float())
		case reflect.Bool:
			w.Bool(v.Bool())
		case reflect.Struct:
			for i, count := 0, v.NumField(); i < count; i++ {
				c.encode(w, v.Field(i))
			}
		case reflect.Slice:
			count := v.Len()
			w.Uint32(uint32(count))
			for i := 0; i < count; i++ {
				c.encode(w, v.Index(i))
			}
		default:
			panic(fmt.Errorf("unhandled type %T %v %v", o, t.Name(), t.Kind()))
		}
	}
}

// decode reads the value v from r, using the JDWP encoding scheme. It does
// not return an error: r is a sticky-error wire.Reader, so a short read or
// invalid UTF-8 string anywhere in the chain is recorded once on r and
// decoding continues (writing zero values) rather than unwinding. Callers
// must check r.Err() after the top-level decode call returns, and should
// translate a non-nil error into a protocol error — this is what
// distinguishes a command-layer decode failure from a framing-layer one,
// even though both originate from the same wire.Reader.
func (c *Connection) decode(r *wire.Reader, v reflect.Value) {
	switch v.Type() {
	case reflect.TypeOf((*Value)(nil)).Elem():
		tag := Tag(r.Uint8())
		var ty reflect.Type
		switch tag {
		case TagArray:
			ty = reflect.TypeOf(ArrayID(0))
		case TagByte:
			ty = reflect.TypeOf(int8(0))
		case TagChar:
			ty = reflect.TypeOf(Char(0))
		case TagObject:
			ty = reflect.TypeOf(ObjectID(0))
		case TagFloat:
			ty = reflect.TypeOf(float32(0))
		case TagDouble:
			ty = reflect.TypeOf(float64(0))
		case TagInt:
			ty = reflect.TypeOf(int(0))
		case TagShort:
			ty = reflect.TypeOf(int16(0))
		case TagLong:
			ty = reflect.TypeOf(int64(0))
		case TagBoolean:
			ty = reflect.TypeOf(false)
		case TagString:
			ty = reflect.TypeOf(StringID(0))
		case TagThread:
			ty = reflect.TypeOf(ThreadID(0))
		case TagThreadGroup:
			ty = reflect.TypeOf(ThreadGroupID(0))
		case TagClassLoader:
			ty = reflect.TypeOf(ClassLoaderID(0))
		case TagClassObject:
			ty = reflect.TypeOf(ClassObjectID(0))
		case TagVoid:
			v.Set(reflect.New(v.Type()).Elem())
			return
		default:
			if r.Err() == nil {
				panic(protocolErrorf("unhandled value tag %d", uint8(tag)))
			}
			return
		}
		data := reflect.New(ty).Elem()
		c.decode(r, data)
		v.Set(data)
		return
	}

	t := v.Type()
	o := v.Interface()
	switch o.(type) {
	case ReferenceTypeID, ClassID, InterfaceID, ArrayTypeID:
		v.Set(reflect.ValueOf(r.Uint(int(c.idSizes.ReferenceTypeIDSize) * 8)).Convert(t))

	case MethodID:
		v.Set(reflect.ValueOf(r.Uint(int(c.idSizes.MethodIDSize) * 8)).Convert(t))

	case FieldID:
		v.Set(reflect.ValueOf(r.Uint(int(c.idSizes.FieldIDSize) * 8)).Convert(t))

	case ObjectID, ThreadID, ThreadGroupID, StringID, ClassLoaderID, ClassObjectID, ArrayID:
		v.Set(reflect.ValueOf(r.Uint(int(c.idSizes.ObjectIDSize) * 8)).Convert(t))

	case EventModifier:
		panic(fmt.Errorf("cannot decode EventModifiers"))

	default:
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface:
			c.decode(r, v.Elem())
		case reflect.String:
			v.Set(reflect.ValueOf(r.String()).Convert(t))
		case reflect.Bool:
			v.Set(reflect.ValueOf(r.Bool()).Convert(t))
		case reflect.Uint8:
			v.Set(reflect.ValueOf(r.Uint8()).Convert(t))
		case reflect.Uint64:
			v.Set(reflect.ValueOf(r.Uint64()).Convert(t))
		case reflect.Int8:
			v.Set(reflect.ValueOf(r.Int8()).Convert(t))
		case reflect.Int16:
			v.Set(reflect.ValueOf(r.Int16()).Convert(t))
		case reflect.Int32, reflect.Int:
			v.Set(reflect.ValueOf(r.Int32()).Convert(t))
		case reflect.Int64:
			v.Set(reflect.ValueOf(r.Int64()).Convert(t))
		case reflect.Struct:
			for i, count := 0, v.NumField(); i < count; i++ {
				c.decode(r, v.Field(i))
			}
		case reflect.Slice:
			count := int(r.Uint32())
			if r.Err() != nil {
				return
			}
			slice := reflect.MakeSlice(t, count, count)
			for i := 0; i < count; i++ {
				c.decode(r, slice.Index(i))
			}
			v.Set(slice)
		default:
			panic(fmt.Errorf("unhandled type %T %v %v", o, t.Name(), t.Kind()))
		}
	}
}

// decodeInto decodes data (a reply or command payload) into out using the
// JDWP encoding scheme, converting any sticky wire.Reader error — including
// an invalid UTF-8 string anywhere in the payload — into a protocol error
// attributed to the command layer. A panic raised while decoding (such as an
// unknown value tag) is recovered and returned as a protocol error as well.
func (c *Connection) decodeInto(data []byte, out interface{}) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = protocolErrorf("decoding reply: %v", p)
		}
	}()
	r := wire.NewReader(bytes.NewReader(data))
	c.decode(r, reflect.ValueOf(out))
	if err := r.Err(); err != nil {
		return protocolErrorf("decoding reply: %v", err)
	}
	return nil
}

// decodeEvent decodes a single event from a composite-event payload: a
// 1-byte kind followed by the kind's fields (the first of which is always
// the 4-byte request id). It returns an error, without touching r beyond
// the kind byte, when the kind isn't one this client knows how to decode —
// an unknown kind's field layout can't be guessed, so the caller must treat
// this as the end of the composite rather than attempt to resync. Any
// panic raised while decoding a known event's fields (for example an
// unhandled value tag nested in a field value) is recovered here and
// returned as an error instead, so a single malformed event can never bring
// down the demultiplexer goroutine that calls this.
func (c *Connection) decodeEvent(r *wire.Reader) (ev Event, err error) {
	defer func() {
		if p := recover(); p != nil {
			ev, err = nil, fmt.Errorf("%v", p)
		}
	}()

	kind := EventKind(r.Uint8())
	e := kind.event()
	if e == nil {
		if r.Err() != nil {
			return nil, r.Err()
		}
		return nil, protocolErrorf("unknown event kind %d", uint8(kind))
	}
	c.decode(r, reflect.ValueOf(e).Elem())
	if err := r.Err(); err != nil {
		return nil, protocolErrorf("decoding event: %v", err)
	}
	return e, nil
}

// encodeRequest encodes req using the JDWP encoding scheme, returning the
// resulting command payload bytes.
func (c *Connection) encodeRequest(req interface{}) []byte {
	if req == nil {
		return nil
	}
	w := wire.NewWriter()
	c.encode(w, reflect.ValueOf(req))
	return w.Bytes()
}
