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
	"io"
	"sync/atomic"
	"time"

	"github.com/kestrelhq/jdwp/internal/wire"
)

// submission is a single outbound command, handed from a caller's goroutine
// to the demultiplexer loop over submitCh.
type submission struct {
	pkt    cmdPacket
	result chan pendingResult
}

// pendingResult is delivered exactly once to the channel a submission
// registered: either a reply (possibly carrying a non-zero JDWP error
// code, which get() turns into a *JdwpError) or a transport-level err
// (write failure, timeout, or shutdown).
type pendingResult struct {
	reply replyPacket
	err   error
}

// pendingEntry is the demultiplexer's bookkeeping for one in-flight
// submission: who to notify, and when it was sent (for the timeout sweep).
type pendingEntry struct {
	result chan pendingResult
	sentAt time.Time
}

// demuxMsg is what the reader goroutine forwards to the demultiplexer loop:
// either a successfully framed packet, or the error that ended the read
// loop (after which no further demuxMsg is sent).
type demuxMsg struct {
	pkt interface{}
	err error
}

// sweepPeriodFor picks how often the pending-reply table is scanned for
// timeouts: a quarter of replyTimeout (7.5s for the 30s default), so a short
// replyTimeout is still detected promptly, but never longer than
// sweepInterval and never shorter than a millisecond. A non-positive replyTimeout
// gets sweepInterval.
func sweepPeriodFor(replyTimeout time.Duration) time.Duration {
	if replyTimeout <= 0 {
		return sweepInterval
	}
	if p := replyTimeout / 4; p < sweepInterval {
		if p < time.Millisecond {
			return time.Millisecond
		}
		return p
	}
	return sweepInterval
}

// readLoop continuously frames packets off the connection and forwards them
// to the demultiplexer loop. It runs on its own goroutine for the lifetime
// of the Connection and exits on the first error (including the peer
// closing the socket).
func (c *Connection) readLoop() {
	r := wire.NewReader(c.conn)
	for {
		pkt, err := readPacket(r, c.maxPacketSize)
		if err != nil {
			select {
			case c.incoming <- demuxMsg{err: err}:
			case <-c.closeCh:
			}
			return
		}
		select {
		case c.incoming <- demuxMsg{pkt: pkt}:
		case <-c.closeCh:
			return
		}
	}
}

// submit allocates a packet id, hands the command to the demultiplexer
// loop, and blocks until that loop delivers a pendingResult (reply,
// timeout, or disconnect).
func (c *Connection) submit(command cmd, payload []byte) (pendingResult, error) {
	id := packetID(atomic.AddUint32(&c.nextPacketID, 1) - 1)
	s := &submission{
		pkt: cmdPacket{
			id:     id,
			flags:  0,
			cmdSet: command.set,
			cmdID:  command.id,
			data:   payload,
		},
		result: make(chan pendingResult, 1),
	}

	select {
	case c.submitCh <- s:
	case <-c.closeCh:
		return pendingResult{}, ErrDisconnected
	case <-c.closedCh:
		return pendingResult{}, ErrDisconnected
	}

	select {
	case res := <-s.result:
		return res, nil
	case <-c.closeCh:
		return pendingResult{}, ErrDisconnected
	}
}

// runDemux is the single-threaded cooperative event loop described in
// spec.md §4.4. It is the sole owner of the pending-reply table and of
// writes to the connection; the read side is fed by readLoop over
// c.incoming.
func (c *Connection) runDemux(replyTimeout time.Duration) {
	pending := map[packetID]*pendingEntry{}
	ticker := time.NewTicker(sweepPeriodFor(replyTimeout))
	defer ticker.Stop()
	defer close(c.closedCh)

	shutdown := func(cause error) {
		for id, entry := range pending {
			entry.result <- pendingResult{err: cause}
			delete(pending, id)
		}
		close(c.eventCh)
	}

	for {
		select {
		case s := <-c.submitCh:
			w := wire.NewWriter()
			s.pkt.write(w)
			if _, err := c.conn.Write(w.Bytes()); err != nil {
				s.result <- pendingResult{err: err}
				continue
			}
			pending[s.pkt.id] = &pendingEntry{result: s.result, sentAt: time.Now()}

		case msg := <-c.incoming:
			if msg.err != nil {
				if msg.err == io.EOF {
					shutdown(ErrDisconnected)
				} else {
					c.log.WithError(msg.err).Warn("jdwp: connection read failed")
					shutdown(fmt.Errorf("%w: %v", ErrDisconnected, msg.err))
				}
				return
			}
			c.handlePacket(pending, msg.pkt)

		case <-ticker.C:
			now := time.Now()
			for id, entry := range pending {
				if now.Sub(entry.sentAt) > replyTimeout {
					c.log.WithField("packet_id", id).Warn("jdwp: reply timed out")
					entry.result <- pendingResult{err: ErrDisconnected}
					delete(pending, id)
				}
			}

		case <-c.closeCh:
			shutdown(ErrDisconnected)
			return
		}
	}
}

// handlePacket routes one packet read from the peer: a reply is delivered
// to its waiter (or logged and dropped if no submission is waiting for
// that id); a command-from-peer is expected to be a composite event and is
// decoded and enqueued; anything else is logged and ignored.
func (c *Connection) handlePacket(pending map[packetID]*pendingEntry, raw interface{}) {
	switch pkt := raw.(type) {
	case replyPacket:
		entry, ok := pending[pkt.id]
		if !ok {
			c.log.WithField("packet_id", pkt.id).Warn("jdwp: reply for unknown packet id")
			return
		}
		delete(pending, pkt.id)
		entry.result <- pendingResult{reply: pkt}

	case cmdPacket:
		if pkt.cmdSet != cmdSetEvent || pkt.cmdID != cmdEventComposite.id {
			c.log.WithFields(map[string]interface{}{
				"cmd_set": pkt.cmdSet,
				"cmd":     pkt.cmdID,
			}).Debug("jdwp: received unexpected command-from-peer packet")
			return
		}
		c.dispatchComposite(pkt.data)
	}
}

// dispatchComposite decodes a composite-event payload and enqueues each
// event as soon as it is parsed, one at a time. An unknown event kind
// partway through desynchronizes the remainder of the payload (spec
// §4.6/§9) — its field layout can't be guessed — so only the remainder of
// the composite is discarded; events already decoded from earlier in the
// same composite have already been enqueued and are not lost. A decode
// failure never brings down the demultiplexer, so replies continue to
// route correctly.
func (c *Connection) dispatchComposite(data []byte) {
	r := wire.NewReader(bytes.NewReader(data))
	r.Uint8() // suspend policy: not surfaced per-event, caller tracks it via the request that triggered the event
	count := int(r.Uint32())
	for i := 0; i < count && r.Err() == nil; i++ {
		ev, err := c.decodeEvent(r)
		if err != nil {
			c.log.WithError(err).Warn("jdwp: discarding remainder of composite event packet")
			return
		}
		c.sendEvent(ev)
	}
	if err := r.Err(); err != nil {
		c.log.WithError(err).Warn("jdwp: discarding malformed composite event packet")
	}
}

// sendEvent enqueues ev, blocking if the event channel is full (spec §4.4's
// deliberate correctness-over-throughput backpressure: a slow consumer
// stalls the read side rather than losing a breakpoint notification). It
// gives up only if the connection is shutting down.
func (c *Connection) sendEvent(ev Event) {
	select {
	case c.eventCh <- ev:
	case <-c.closeCh:
	}
}
