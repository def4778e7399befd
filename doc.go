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

// Package jdwp implements a client for the Java Debug Wire Protocol: the
// TCP protocol a JVM exposes for external debugger attachment.
//
// The package owns the hard part of that relationship: framing, the
// handshake, and a full-duplex demultiplexer that keeps outbound command
// replies and inbound, unsolicited events straight on a single socket. A
// caller opens a Connection, issues typed requests (GetVersion,
// GetClassesBySignature, SetEvent, ...) that block until their reply
// arrives, and drains Events() for breakpoint hits, steps, and VM
// lifecycle notifications. Session bookkeeping, expression evaluation, and
// any RPC surface on top of this are left to the caller.
package jdwp
