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
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// defaultReplyTimeout is how long a pending reply may go unanswered
	// before the periodic sweep fails it.
	defaultReplyTimeout = 30 * time.Second

	// sweepInterval is the longest interval between the demultiplexer's
	// scans of the pending-reply table for timed-out entries.
	sweepInterval = 10 * time.Second

	// defaultEventQueueCapacity bounds the event channel. It is sized
	// generously: the queue only needs to absorb a burst between the
	// consumer's drain cycles, not to buffer indefinitely.
	defaultEventQueueCapacity = 256
)

// wantIDSize is the identifier byte width this client assumes throughout
// the command codec (spec §9: every observed JVM uses 8 bytes for all five
// identifier kinds, so the client validates rather than generalizes).
const wantIDSize = 8

// Option configures a Connection at Open time.
type Option func(*options)

type options struct {
	logger             *logrus.Logger
	replyTimeout       time.Duration
	eventQueueCapacity int
	maxPacketSize      int
}

func defaultOptions() options {
	return options{
		logger:             logrus.StandardLogger(),
		replyTimeout:       defaultReplyTimeout,
		eventQueueCapacity: defaultEventQueueCapacity,
		maxPacketSize:      DefaultMaxPacketSize,
	}
}

// WithLogger directs the connection's structured log events (packet
// submission, routing warnings, shutdown) to log instead of the standard
// logrus logger.
func WithLogger(log *logrus.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithReplyTimeout overrides how long a submitted command may wait for its
// reply before the periodic sweep fails it with a disconnect-class error.
func WithReplyTimeout(d time.Duration) Option {
	return func(o *options) { o.replyTimeout = d }
}

// WithEventQueueCapacity overrides the bound on the event channel. A
// smaller capacity surfaces backpressure sooner; it never causes events to
// be dropped.
func WithEventQueueCapacity(n int) Option {
	return func(o *options) { o.eventQueueCapacity = n }
}

// WithMaxPacketSize overrides the maximum accepted packet length. A
// non-positive value disables the cap entirely; callers connecting to an
// untrusted peer should not do this.
func WithMaxPacketSize(n int) Option {
	return func(o *options) { o.maxPacketSize = n }
}

// Connection is a single JDWP session over conn. All exported methods are
// safe to call concurrently; replies are correlated by packet id and events
// are delivered on the channel returned by Events.
type Connection struct {
	conn io.ReadWriteCloser
	log  *logrus.Logger

	idSizes       IDSizes
	nextPacketID  uint32
	maxPacketSize int

	submitCh chan *submission
	incoming chan demuxMsg
	eventCh  chan Event
	closeCh  chan struct{}
	closedCh chan struct{}
}

// Open performs the JDWP handshake over conn, starts the demultiplexer, and
// queries the peer's identifier widths. It fails if the handshake is
// rejected, the transport errors, or the peer's identifier widths are
// anything other than the 8 bytes this client assumes (spec §9).
func Open(ctx context.Context, conn io.ReadWriteCloser, opts ...Option) (*Connection, error) {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}

	if err := exchangeHandshakes(conn); err != nil {
		return nil, err
	}

	c := &Connection{
		conn:          conn,
		log:           o.logger,
		idSizes:       IDSizes{FieldIDSize: 8, MethodIDSize: 8, ObjectIDSize: 8, ReferenceTypeIDSize: 8, FrameIDSize: 8},
		nextPacketID:  1,
		maxPacketSize: o.maxPacketSize,
		submitCh:      make(chan *submission),
		incoming:      make(chan demuxMsg),
		eventCh:       make(chan Event, o.eventQueueCapacity),
		closeCh:       make(chan struct{}),
		closedCh:      make(chan struct{}),
	}

	go c.readLoop()
	go c.runDemux(o.replyTimeout)

	sizes, err := c.GetIDSizes()
	if err != nil {
		c.Close()
		return nil, errors.Wrap(err, "querying identifier sizes")
	}
	if sizes.FieldIDSize != wantIDSize || sizes.MethodIDSize != wantIDSize ||
		sizes.ObjectIDSize != wantIDSize || sizes.ReferenceTypeIDSize != wantIDSize ||
		sizes.FrameIDSize != wantIDSize {
		c.Close()
		return nil, protocolErrorf("unsupported identifier sizes %+v: this client assumes %d-byte ids", sizes, wantIDSize)
	}
	c.idSizes = sizes
	return c, nil
}

// Close shuts the connection down: in-flight submissions are failed with a
// disconnect error, the event channel is closed, and the underlying
// transport is closed. Close is safe to call more than once.
func (c *Connection) Close() error {
	select {
	case <-c.closeCh:
	default:
		close(c.closeCh)
	}
	<-c.closedCh
	return c.conn.Close()
}

// Events returns the channel events are delivered on. The channel is closed
// once the connection has shut down; callers should range over it rather
// than assume it stays open.
func (c *Connection) Events() <-chan Event { return c.eventCh }

// TryNextEvent returns the next already-queued event without blocking. The
// second return value is false if no event is currently queued.
func (c *Connection) TryNextEvent() (Event, bool) {
	select {
	case ev, ok := <-c.eventCh:
		return ev, ok
	default:
		return nil, false
	}
}

// get sends cmd with the encoded form of req and, once the reply arrives,
// decodes its payload into out (which may be nil for replies with no
// content). A non-zero reply error code is returned as *JdwpError.
func (c *Connection) get(command cmd, req interface{}, out interface{}) error {
	payload := c.encodeRequest(req)
	result, err := c.submit(command, payload)
	if err != nil {
		return err
	}
	if result.err != nil {
		return result.err
	}
	if result.reply.err != ErrNone {
		return &JdwpError{Code: result.reply.err}
	}
	if out == nil {
		return nil
	}
	return c.decodeInto(result.reply.data, out)
}

