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

// EventRequestID is the peer-allocated identifier returned by SetEvent;
// subsequent events raised by that request carry this id.
type EventRequestID int32

// SuspendPolicy controls which threads the target VM suspends when an
// event fires.
type SuspendPolicy uint8

const (
	// SuspendNone suspends no threads when the event fires.
	SuspendNone = SuspendPolicy(0)
	// SuspendEventThread suspends only the thread that raised the event.
	SuspendEventThread = SuspendPolicy(1)
	// SuspendAll suspends every thread in the target VM.
	SuspendAll = SuspendPolicy(2)
)

// EventModifier is implemented by every filter that can be attached to an
// event request. See the JDWP reference for the semantics of each kind.
type EventModifier interface {
	modKind() uint8
}

// CountEventModifier limits the number of times an event may fire before
// the request is automatically cleared.
type CountEventModifier int32

// ThreadOnlyEventModifier restricts events to those raised on the given
// thread.
type ThreadOnlyEventModifier ThreadID

// ClassOnlyEventModifier restricts events to those associated with the
// given class.
type ClassOnlyEventModifier ClassID

// ClassMatchEventModifier restricts events to those whose class name
// matches pattern (an exact name, or a "*"-prefixed/suffixed wildcard).
type ClassMatchEventModifier string

// ClassExcludeEventModifier restricts events to those whose class name
// does not match pattern (see ClassMatchEventModifier for the syntax).
type ClassExcludeEventModifier string

// LocationOnlyEventModifier restricts events to those occurring at the
// given code location; this is how a breakpoint is expressed.
type LocationOnlyEventModifier Location

// ExceptionOnlyEventModifier restricts exception events by exception type
// and catch status. Valid only for EXCEPTION event requests.
type ExceptionOnlyEventModifier struct {
	ExceptionOrNull ReferenceTypeID
	Caught          bool
	Uncaught        bool
}

// StepEventModifier restricts single-step events by thread, step size, and
// step depth. Valid only for SINGLE_STEP event requests.
type StepEventModifier struct {
	Thread ThreadID
	Size   int32
	Depth  int32
}

func (CountEventModifier) modKind() uint8         { return 1 }
func (ThreadOnlyEventModifier) modKind() uint8    { return 3 }
func (ClassOnlyEventModifier) modKind() uint8     { return 4 }
func (ClassMatchEventModifier) modKind() uint8    { return 5 }
func (ClassExcludeEventModifier) modKind() uint8  { return 6 }
func (LocationOnlyEventModifier) modKind() uint8  { return 7 }
func (ExceptionOnlyEventModifier) modKind() uint8 { return 8 }
func (StepEventModifier) modKind() uint8          { return 10 }

// SetEvent registers a request to be notified when an event of kind occurs,
// subject to the given modifiers (commonly a single LocationOnlyEventModifier
// for a breakpoint). It returns the peer-allocated request id, later seen on
// matching events and passed to ClearEvent.
func (c *Connection) SetEvent(kind EventKind, policy SuspendPolicy, modifiers ...EventModifier) (EventRequestID, error) {
	req := struct {
		Kind      EventKind
		Policy    SuspendPolicy
		Modifiers []EventModifier
	}{kind, policy, modifiers}
	var res EventRequestID
	err := c.get(cmdEventRequestSet, req, &res)
	return res, err
}

// ClearEvent cancels a previously set event request.
func (c *Connection) ClearEvent(kind EventKind, id EventRequestID) error {
	req := struct {
		Kind EventKind
		ID   EventRequestID
	}{kind, id}
	return c.get(cmdEventRequestClear, req, nil)
}
