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

	"github.com/pkg/errors"
)

// GetClassBySignature returns the single loaded class matching signature.
// It is an error if zero or more than one class share that signature.
func (c *Connection) GetClassBySignature(signature string) (ClassInfo, error) {
	classes, err := c.GetClassesBySignature(signature)
	if err != nil {
		return ClassInfo{}, err
	}
	if len(classes) != 1 {
		return ClassInfo{}, errors.Errorf("%d classes found with signature %q", len(classes), signature)
	}
	return classes[0], nil
}

// GetLocationMethodName returns the name of the method referenced by l.
func (c *Connection) GetLocationMethodName(l Location) (string, error) {
	methods, err := c.GetMethods(ReferenceTypeID(l.Class))
	if err != nil {
		return "", err
	}
	method := methods.FindByID(l.Method)
	if method == nil {
		return "", errors.Errorf("method not found with id %v", l.Method)
	}
	return method.Name, nil
}

// GetClassMethod looks up the method with the given name and signature on
// class.
func (c *Connection) GetClassMethod(class ClassID, name, signature string) (Method, error) {
	methods, err := c.GetMethods(ReferenceTypeID(class))
	if err != nil {
		return Method{}, err
	}
	method := methods.FindBySignature(name, signature)
	if method == nil {
		return Method{}, errors.Errorf("method %s%s not found", name, signature)
	}
	return *method, nil
}

// WatchEvents sets an event request for kind with the given suspend policy
// and modifiers, then drains Events() until onEvent returns false, ctx is
// cancelled, or the connection disconnects. The event request is cleared on
// every exit path. Events not carrying this request's id are skipped.
//
// WatchEvents consumes from the single shared Events() channel, so callers
// should not run two of these concurrently alongside other Events()
// consumers — spec.md's concurrency contract makes event draining
// single-consumer-preferred.
func (c *Connection) WatchEvents(ctx context.Context, kind EventKind, policy SuspendPolicy, onEvent func(Event) bool, modifiers ...EventModifier) error {
	id, err := c.SetEvent(kind, policy, modifiers...)
	if err != nil {
		return err
	}
	defer c.ClearEvent(kind, id)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-c.Events():
			if !ok {
				return ErrDisconnected
			}
			if eventRequestOf(ev) != id {
				continue
			}
			if !onEvent(ev) {
				return nil
			}
		}
	}
}

// eventRequestOf exposes the unexported Event.request accessor to this
// file without widening the Event interface's public surface.
func eventRequestOf(ev Event) EventRequestID { return ev.request() }

// WaitForClassPrepare blocks until a class whose name matches pattern is
// prepared, returning the thread that prepared it. All threads are
// suspended when this returns successfully.
func (c *Connection) WaitForClassPrepare(ctx context.Context, pattern string) (ThreadID, error) {
	var out ThreadID
	onEvent := func(ev Event) bool {
		out = ev.(*EventClassPrepare).Thread
		return false
	}
	if err := c.WatchEvents(ctx, ClassPrepare, SuspendAll, onEvent, ClassMatchEventModifier(pattern)); err != nil {
		return 0, err
	}
	return out, nil
}

// WaitForMethodEntry blocks until method on class is entered, returning the
// method-entry event. All threads are suspended when this returns
// successfully; entries on methods other than the requested one resume the
// VM and keep waiting.
func (c *Connection) WaitForMethodEntry(ctx context.Context, class ClassID, method MethodID) (*EventMethodEntry, error) {
	var out *EventMethodEntry
	onEvent := func(ev Event) bool {
		e := ev.(*EventMethodEntry)
		if e.Location.Method == method {
			out = e
			return false
		}
		c.ResumeAll()
		return true
	}
	if err := c.WatchEvents(ctx, MethodEntry, SuspendAll, onEvent, ClassOnlyEventModifier(class)); err != nil {
		return nil, err
	}
	return out, nil
}
