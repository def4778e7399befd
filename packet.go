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
	"github.com/kestrelhq/jdwp/internal/wire"
)

// packetHeaderSize is the size in bytes of the cmdPacket/replyPacket header:
// a uint32 length, a uint32 id and a flags byte, followed by either the
// cmdSet and cmd bytes (command) or a uint16 error code (reply).
const packetHeaderSize = 11

// DefaultMaxPacketSize bounds the length field of an incoming packet. JDWP
// itself places no hard ceiling on packet size, but an unbounded length
// prefix turns a corrupted stream into an unbounded allocation; 10MiB
// comfortably covers the largest legitimate replies (class lists, frame
// dumps) this client issues requests for.
const DefaultMaxPacketSize = 10 * 1024 * 1024

type packetID uint32

type packetFlags uint8

const packetIsReply = packetFlags(0x80)

// cmdPacket is a request the client sends to the target VM, or a command the
// VM sends to the client (in practice a composite event).
type cmdPacket struct {
	id     packetID
	flags  packetFlags
	cmdSet cmdSet
	cmdID  cmdID
	data   []byte
}

// JDWP uses the following wire layouts for all communication:
//
// struct cmdPacket {
//   length uint32       4 bytes
//   id     packetID     4 bytes
//   flags  packetFlags  1 byte
//   cmdSet cmdSet       1 byte
//   cmd    uint8        1 byte
//   data   []byte       N bytes
// }
//
// struct replyPacket {
//   length uint32       4 bytes
//   id     packetID     4 bytes
//   flags  packetFlags  1 byte
//   err    errorCode    2 bytes
//   data   []byte       N bytes
// }

func (p cmdPacket) write(w *wire.Writer) {
	w.Uint32(uint32(packetHeaderSize + len(p.data)))
	w.Uint32(uint32(p.id))
	w.Uint8(uint8(p.flags))
	w.Uint8(uint8(p.cmdSet))
	w.Uint8(uint8(p.cmdID))
	w.Data(p.data)
}

// replyPacket is a response to a previously issued cmdPacket, correlated by
// id. A non-zero err means the data payload is empty; the command's decode
// step never runs.
type replyPacket struct {
	id   packetID
	err  Error
	data []byte
}

// readPacket reads one frame from r, returning either a cmdPacket or a
// replyPacket depending on the reply bit in the flags byte. maxSize bounds
// the length prefix: a length outside [packetHeaderSize, maxSize] is a
// protocol violation, not an I/O error, since the stream is still framed
// correctly enough to know how large the bogus claim is.
func readPacket(r *wire.Reader, maxSize int) (interface{}, error) {
	length := r.Uint32()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if length < packetHeaderSize {
		return nil, protocolErrorf("packet length %d shorter than header size %d", length, packetHeaderSize)
	}
	if maxSize > 0 && int(length) > maxSize {
		return nil, protocolErrorf("packet length %d exceeds maximum %d", length, maxSize)
	}

	id := packetID(r.Uint32())
	flags := packetFlags(r.Uint8())
	body := make([]byte, int(length)-packetHeaderSize)

	if flags&packetIsReply != 0 {
		out := replyPacket{id: id, err: Error(r.Uint16())}
		r.Data(body)
		if err := r.Err(); err != nil {
			return nil, err
		}
		out.data = body
		return out, nil
	}

	out := cmdPacket{
		id:     id,
		flags:  flags,
		cmdSet: cmdSet(r.Uint8()),
		cmdID:  cmdID(r.Uint8()),
	}
	r.Data(body)
	if err := r.Err(); err != nil {
		return nil, err
	}
	out.data = body
	return out, nil
}
