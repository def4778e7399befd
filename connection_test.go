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
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/jdwp/internal/wire"
)

// serveHandshakeAndIDSizes performs the server half of the handshake and
// answers the VM.IDSizes request Open always issues, claiming 8-byte ids
// throughout. It returns once that exchange is complete; the caller drives
// whatever scripted traffic the test needs afterwards.
func serveHandshakeAndIDSizes(t *testing.T, peer net.Conn) {
	t.Helper()
	buf := make([]byte, len(handshakeToken))
	_, err := io.ReadFull(peer, buf)
	require.NoError(t, err)
	_, err = peer.Write(handshakeToken)
	require.NoError(t, err)

	r := wire.NewReader(peer)
	pkt, err := readPacket(r, DefaultMaxPacketSize)
	require.NoError(t, err)
	cp, ok := pkt.(cmdPacket)
	require.True(t, ok)
	require.Equal(t, cmdVirtualMachineIDSizes.set, cp.cmdSet)
	require.Equal(t, cmdVirtualMachineIDSizes.id, cp.cmdID)

	body := wire.NewWriter()
	body.Int32(8)
	body.Int32(8)
	body.Int32(8)
	body.Int32(8)
	body.Int32(8)
	writeReply(t, peer, cp.id, ErrNone, body.Bytes())
}

func writeReply(t *testing.T, peer net.Conn, id packetID, code Error, data []byte) {
	t.Helper()
	_, err := peer.Write(writeReplyPacket(id, code, data))
	require.NoError(t, err)
}

func readCmd(t *testing.T, r *wire.Reader) cmdPacket {
	t.Helper()
	pkt, err := readPacket(r, DefaultMaxPacketSize)
	require.NoError(t, err)
	cp, ok := pkt.(cmdPacket)
	require.True(t, ok)
	return cp
}

// newOpenConnection establishes a Connection over a net.Pipe, driving the
// peer side of the handshake and the mandatory IDSizes exchange on a
// background goroutine. It returns the live connection plus the peer half of
// the pipe for the test to script further replies/events on.
func newOpenConnection(t *testing.T, opts ...Option) (*Connection, net.Conn) {
	t.Helper()
	client, peer := net.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		serveHandshakeAndIDSizes(t, peer)
	}()

	log := logrus.New()
	log.SetOutput(io.Discard)
	allOpts := append([]Option{WithLogger(log)}, opts...)

	conn, err := Open(context.Background(), client, allOpts...)
	require.NoError(t, err)
	<-done

	t.Cleanup(func() {
		conn.Close()
		peer.Close()
	})
	return conn, peer
}

func TestOpenValidatesIDSizes(t *testing.T) {
	client, peer := net.Pipe()
	defer client.Close()

	go func() {
		buf := make([]byte, len(handshakeToken))
		io.ReadFull(peer, buf)
		peer.Write(handshakeToken)
		r := wire.NewReader(peer)
		cp := readCmd(t, r)
		body := wire.NewWriter()
		// Claim 4-byte ids instead of the 8 this client requires.
		body.Int32(4)
		body.Int32(4)
		body.Int32(4)
		body.Int32(4)
		body.Int32(4)
		writeReply(t, peer, cp.id, ErrNone, body.Bytes())
	}()

	_, err := Open(context.Background(), client)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrProtocol)
}

func TestGetVersion(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)

	go func() {
		cp := readCmd(t, r)
		require.Equal(t, cmdVirtualMachineVersion, cmd{cp.cmdSet, cp.cmdID})
		body := wire.NewWriter()
		body.String("Mock VM 1.0")
		body.Int32(1)
		body.Int32(8)
		body.String("1.8.0_292")
		body.String("Mock VM")
		writeReply(t, peer, cp.id, ErrNone, body.Bytes())
	}()

	v, err := conn.GetVersion()
	require.NoError(t, err)
	require.Equal(t, "Mock VM 1.0", v.Description)
	require.Equal(t, int32(1), v.JDWPMajor)
	require.Equal(t, int32(8), v.JDWPMinor)
	require.Equal(t, "1.8.0_292", v.Version)
	require.Equal(t, "Mock VM", v.Name)
}

func TestGetClassesBySignature(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)

	go func() {
		cp := readCmd(t, r)
		require.Equal(t, cmdVirtualMachineClassesBySignature, cmd{cp.cmdSet, cp.cmdID})
		body := wire.NewWriter()
		body.Uint32(1)
		body.Uint8(uint8(Class))
		body.Uint64(0xC1A55)
		body.Int32(int32(StatusPrepared | StatusVerified))
		writeReply(t, peer, cp.id, ErrNone, body.Bytes())
	}()

	classes, err := conn.GetClassesBySignature("Lcom/example/Main;")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	require.Equal(t, Class, classes[0].Kind)
	require.Equal(t, ReferenceTypeID(0xC1A55), classes[0].TypeID)
	require.Equal(t, "Lcom/example/Main;", classes[0].Signature)
	require.Equal(t, StatusPrepared|StatusVerified, classes[0].Status)
}

func TestGetMethods(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)

	go func() {
		cp := readCmd(t, r)
		require.Equal(t, cmdReferenceTypeMethods, cmd{cp.cmdSet, cp.cmdID})
		body := wire.NewWriter()
		body.Uint32(1)
		body.Uint64(42)
		body.String("main")
		body.String("([Ljava/lang/String;)V")
		body.Int32(int32(ModPublic | ModStatic))
		writeReply(t, peer, cp.id, ErrNone, body.Bytes())
	}()

	methods, err := conn.GetMethods(0xC1A55)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	require.Equal(t, MethodID(42), methods[0].ID)
	require.Equal(t, "main", methods[0].Name)
	require.Equal(t, "([Ljava/lang/String;)V", methods[0].Signature)
	require.True(t, methods[0].ModBits.Public())
	require.True(t, methods[0].ModBits.Static())
}

// writeBreakpointComposite builds a full composite-event command frame
// carrying a single Breakpoint event, in the wire format decode() expects
// for 8-byte identifiers.
func writeBreakpointComposite(reqID EventRequestID, thread ThreadID, loc Location) []byte {
	body := wire.NewWriter()
	body.Uint8(uint8(SuspendAll))
	body.Uint32(1)
	body.Uint8(uint8(Breakpoint))
	body.Int32(int32(reqID))
	body.Uint64(uint64(thread))
	body.Uint8(uint8(loc.Type))
	body.Uint64(uint64(loc.Class))
	body.Uint64(uint64(loc.Method))
	body.Uint64(loc.Location)

	w := wire.NewWriter()
	cmdPacket{id: 0, flags: 0, cmdSet: cmdSetEvent, cmdID: cmdID(cmdEventComposite.id), data: body.Bytes()}.write(w)
	return w.Bytes()
}

func TestEventRequestSetAndCompositeBreakpoint(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)

	loc := Location{Type: Class, Class: 0xC1A55, Method: 7, Location: 3}

	go func() {
		cp := readCmd(t, r)
		require.Equal(t, cmdEventRequestSet, cmd{cp.cmdSet, cp.cmdID})
		body := wire.NewWriter()
		body.Int32(99)
		writeReply(t, peer, cp.id, ErrNone, body.Bytes())

		_, err := peer.Write(writeBreakpointComposite(99, 0xBEEF, loc))
		require.NoError(t, err)
	}()

	reqID, err := conn.SetEvent(Breakpoint, SuspendAll, LocationOnlyEventModifier(loc))
	require.NoError(t, err)
	require.Equal(t, EventRequestID(99), reqID)

	ev := <-conn.Events()
	bp, ok := ev.(*EventBreakpoint)
	require.True(t, ok)
	require.Equal(t, EventRequestID(99), bp.Request)
	require.Equal(t, ThreadID(0xBEEF), bp.Thread)
	require.Equal(t, loc, bp.Location)
}

func TestEventRequestClear(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)
	loc := Location{Type: Class, Class: 1, Method: 2, Location: 0}

	go func() {
		cp := readCmd(t, r)
		require.Equal(t, cmdEventRequestClear, cmd{cp.cmdSet, cp.cmdID})
		writeReply(t, peer, cp.id, ErrNone, nil)

		// Even after Clear, any already-scripted events for that request id
		// still decode correctly — clearing is a peer-side concern the
		// client's event-decoding path is wholly unaware of.
		_, err := peer.Write(writeBreakpointComposite(7, 0xCAFE, loc))
		require.NoError(t, err)
	}()

	err := conn.ClearEvent(Breakpoint, 7)
	require.NoError(t, err)

	ev := <-conn.Events()
	bp, ok := ev.(*EventBreakpoint)
	require.True(t, ok)
	require.Equal(t, EventRequestID(7), bp.Request)
}

// writeCompositeWithTrailingUnknownKind builds a composite-event frame
// carrying one well-formed Breakpoint event followed by an event of an
// unrecognized kind (a kind byte event() doesn't know how to construct, e.g.
// a monitor event). The unknown event's body is deliberately omitted, since
// its layout is exactly what the client can't know.
func writeCompositeWithTrailingUnknownKind(reqID EventRequestID, thread ThreadID, loc Location, unknownKind uint8) []byte {
	body := wire.NewWriter()
	body.Uint8(uint8(SuspendAll))
	body.Uint32(2)
	body.Uint8(uint8(Breakpoint))
	body.Int32(int32(reqID))
	body.Uint64(uint64(thread))
	body.Uint8(uint8(loc.Type))
	body.Uint64(uint64(loc.Class))
	body.Uint64(uint64(loc.Method))
	body.Uint64(loc.Location)
	body.Uint8(unknownKind)
	body.Int32(int32(reqID) + 1)

	w := wire.NewWriter()
	cmdPacket{id: 0, flags: 0, cmdSet: cmdSetEvent, cmdID: cmdID(cmdEventComposite.id), data: body.Bytes()}.write(w)
	return w.Bytes()
}

// TestCompositeEventKnownPrefixDeliveredBeforeUnknownKind verifies that an
// unknown event kind partway through a composite only discards the
// remainder of that composite: events already decoded earlier in the same
// composite must still reach the caller rather than being dropped wholesale.
func TestCompositeEventKnownPrefixDeliveredBeforeUnknownKind(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)
	loc := Location{Type: Class, Class: 0xC1A55, Method: 7, Location: 3}

	// 95 is not a JDWP event kind, so it is not in EventKind.event()'s table.
	_, err := peer.Write(writeCompositeWithTrailingUnknownKind(99, 0xBEEF, loc, 95))
	require.NoError(t, err)

	ev := <-conn.Events()
	bp, ok := ev.(*EventBreakpoint)
	require.True(t, ok)
	require.Equal(t, EventRequestID(99), bp.Request)
	require.Equal(t, ThreadID(0xBEEF), bp.Thread)
	require.Equal(t, loc, bp.Location)

	// No second event follows: the unknown kind aborted the rest of the
	// composite, and the connection must remain usable afterward.
	select {
	case second := <-conn.Events():
		t.Fatalf("unexpected second event delivered: %#v", second)
	case <-time.After(50 * time.Millisecond):
	}

	go func() {
		cp := readCmd(t, r)
		require.Equal(t, cmdVirtualMachineVersion, cmd{cp.cmdSet, cp.cmdID})
		body := wire.NewWriter()
		body.String("Mock VM 1.0")
		body.Int32(1)
		body.Int32(8)
		body.String("1.8.0_292")
		body.String("Mock VM")
		writeReply(t, peer, cp.id, ErrNone, body.Bytes())
	}()

	_, err = conn.GetVersion()
	require.NoError(t, err)
}

func TestStackFrameGetValuesInvalidSlotLeavesConnectionUsable(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)

	go func() {
		cp := readCmd(t, r)
		require.Equal(t, cmdStackFrameGetValues, cmd{cp.cmdSet, cp.cmdID})
		writeReply(t, peer, cp.id, ErrInvalidSlot, nil)

		// The connection must still be usable: answer a follow-up request.
		cp2 := readCmd(t, r)
		require.Equal(t, cmdVirtualMachineVersion, cmd{cp2.cmdSet, cp2.cmdID})
		body := wire.NewWriter()
		body.String("")
		body.Int32(1)
		body.Int32(8)
		body.String("")
		body.String("")
		writeReply(t, peer, cp2.id, ErrNone, body.Bytes())
	}()

	_, err := conn.GetValues(1, 2, []SlotRequest{{Slot: 0, Sig: uint8(TagInt)}})
	require.Error(t, err)
	var jerr *JdwpError
	require.ErrorAs(t, err, &jerr)
	require.Equal(t, ErrInvalidSlot, jerr.Code)
	require.True(t, err.(*JdwpError).Is(ErrInvalidSlot))

	_, err = conn.GetVersion()
	require.NoError(t, err)
}

func TestConcurrentSubmissionsRouteRepliesOutOfOrder(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)

	const n = 5
	go func() {
		ids := make([]packetID, 0, n)
		for i := 0; i < n; i++ {
			cp := readCmd(t, r)
			ids = append(ids, cp.id)
		}
		// Reply in reverse order of receipt.
		for i := len(ids) - 1; i >= 0; i-- {
			body := wire.NewWriter()
			body.String("")
			body.Int32(int32(ids[i]))
			body.Int32(8)
			body.String("")
			body.String("")
			writeReply(t, peer, ids[i], ErrNone, body.Bytes())
		}
	}()

	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			_, err := conn.GetVersion()
			results <- err
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-results)
	}
}

func TestEventArrivingMidRequestDoesNotAffectReplyRouting(t *testing.T) {
	conn, peer := newOpenConnection(t)
	r := wire.NewReader(peer)
	loc := Location{Type: Class, Class: 1, Method: 1, Location: 0}

	go func() {
		cp := readCmd(t, r)
		require.Equal(t, cmdVirtualMachineAllThreads, cmd{cp.cmdSet, cp.cmdID})

		// Slip an unsolicited event in before answering the pending request.
		_, err := peer.Write(writeBreakpointComposite(1, 0xAAAA, loc))
		require.NoError(t, err)

		body := wire.NewWriter()
		body.Uint32(1)
		body.Uint64(0x1234)
		writeReply(t, peer, cp.id, ErrNone, body.Bytes())
	}()

	threads, err := conn.GetAllThreads()
	require.NoError(t, err)
	require.Equal(t, []ThreadID{0x1234}, threads)

	ev := <-conn.Events()
	bp, ok := ev.(*EventBreakpoint)
	require.True(t, ok)
	require.Equal(t, ThreadID(0xAAAA), bp.Thread)
}

func TestReplyTimeoutFailsSubmissionAndKeepsConnectionAlive(t *testing.T) {
	conn, peer := newOpenConnection(t, WithReplyTimeout(30*time.Millisecond))
	r := wire.NewReader(peer)

	go func() {
		// Drop the first request on the floor to trigger the timeout sweep.
		readCmd(t, r)

		cp := readCmd(t, r)
		body := wire.NewWriter()
		body.String("")
		body.Int32(1)
		body.Int32(8)
		body.String("")
		body.String("")
		writeReply(t, peer, cp.id, ErrNone, body.Bytes())
	}()

	_, err := conn.GetVersion()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrDisconnected)

	_, err = conn.GetVersion()
	require.NoError(t, err)
}

func TestEventBackpressureBlocksUntilDrained(t *testing.T) {
	conn, peer := newOpenConnection(t, WithEventQueueCapacity(2))
	loc := Location{Type: Class, Class: 1, Method: 1, Location: 0}

	const total = 5
	sent := make(chan struct{})
	go func() {
		for i := 0; i < total; i++ {
			_, err := peer.Write(writeBreakpointComposite(EventRequestID(i), ThreadID(i), loc))
			require.NoError(t, err)
		}
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("peer should have blocked once the event queue filled")
	case <-time.After(50 * time.Millisecond):
	}

	got := make([]EventRequestID, 0, total)
	for i := 0; i < total; i++ {
		ev := <-conn.Events()
		got = append(got, ev.(*EventBreakpoint).Request)
	}
	<-sent
	for i, id := range got {
		require.Equal(t, EventRequestID(i), id, "events must be delivered in send order")
	}
}
