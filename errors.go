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
	"fmt"

	"github.com/pkg/errors"
)

// Error is the 16-bit error code carried by a JDWP reply packet.
type Error uint16

const (
	ErrNone                                = Error(0)
	ErrInvalidThread                       = Error(10)
	ErrInvalidThreadGroup                  = Error(11)
	ErrInvalidPriority                     = Error(12)
	ErrThreadNotSuspended                  = Error(13)
	ErrThreadSuspended                     = Error(14)
	ErrInvalidObject                       = Error(20)
	ErrInvalidClass                        = Error(21)
	ErrClassNotPrepared                    = Error(22)
	ErrInvalidMethodID                     = Error(23)
	ErrInvalidLocation                     = Error(24)
	ErrInvalidFieldID                      = Error(25)
	ErrInvalidFrameID                      = Error(30)
	ErrNoMoreFrames                        = Error(31)
	ErrOpaqueFrame                         = Error(32)
	ErrNotCurrentFrame                     = Error(33)
	ErrTypeMismatch                        = Error(34)
	ErrInvalidSlot                         = Error(35)
	ErrDuplicate                           = Error(40)
	ErrNotFound                            = Error(41)
	ErrInvalidMonitor                      = Error(50)
	ErrNotMonitorOwner                     = Error(51)
	ErrInterrupt                           = Error(52)
	ErrInvalidClassFormat                  = Error(60)
	ErrCircularClassDefinition             = Error(61)
	ErrFailsVerification                   = Error(62)
	ErrAddMethodNotImplemented             = Error(63)
	ErrSchemaChangeNotImplemented          = Error(64)
	ErrInvalidTypestate                    = Error(65)
	ErrHierarchyChangeNotImplemented       = Error(66)
	ErrDeleteMethodNotImplemented          = Error(67)
	ErrUnsupportedVersion                  = Error(68)
	ErrNamesDontMatch                      = Error(69)
	ErrClassModifiersChangeNotImplemented  = Error(70)
	ErrMethodModifiersChangeNotImplemented = Error(71)
	ErrNotImplemented                      = Error(99)
	ErrNullPointer                         = Error(100)
	ErrAbsentInformation                   = Error(101)
	ErrInvalidEventType                    = Error(102)
	ErrIllegalArgument                     = Error(103)
	ErrOutOfMemory                         = Error(110)
	ErrAccessDenied                        = Error(111)
	ErrVMDead                              = Error(112)
	ErrInternal                            = Error(113)
	ErrUnattachedThread                    = Error(115)
	ErrInvalidTag                          = Error(500)
	ErrAlreadyInvoking                     = Error(502)
	ErrInvalidIndex                        = Error(503)
	ErrInvalidLength                       = Error(504)
	ErrInvalidString                       = Error(506)
	ErrInvalidClassLoader                  = Error(507)
	ErrInvalidArray                        = Error(508)
	ErrTransportLoad                       = Error(509)
	ErrTransportInit                       = Error(510)
	ErrNativeMethod                        = Error(511)
	ErrInvalidCount                        = Error(512)
)

// Name returns the canonical JDWP name for the error code, e.g.
// "INVALID_SLOT", or "UNKNOWN_ERROR" for a code this client doesn't
// recognize (the numeric value is preserved in Error() either way).
func (e Error) Name() string {
	switch e {
	case ErrNone:
		return "NONE"
	case ErrInvalidThread:
		return "INVALID_THREAD"
	case ErrInvalidThreadGroup:
		return "INVALID_THREAD_GROUP"
	case ErrInvalidPriority:
		return "INVALID_PRIORITY"
	case ErrThreadNotSuspended:
		return "THREAD_NOT_SUSPENDED"
	case ErrThreadSuspended:
		return "THREAD_SUSPENDED"
	case ErrInvalidObject:
		return "INVALID_OBJECT"
	case ErrInvalidClass:
		return "INVALID_CLASS"
	case ErrClassNotPrepared:
		return "CLASS_NOT_PREPARED"
	case ErrInvalidMethodID:
		return "INVALID_METHODID"
	case ErrInvalidLocation:
		return "INVALID_LOCATION"
	case ErrInvalidFieldID:
		return "INVALID_FIELDID"
	case ErrInvalidFrameID:
		return "INVALID_FRAMEID"
	case ErrNoMoreFrames:
		return "NO_MORE_FRAMES"
	case ErrOpaqueFrame:
		return "OPAQUE_FRAME"
	case ErrNotCurrentFrame:
		return "NOT_CURRENT_FRAME"
	case ErrTypeMismatch:
		return "TYPE_MISMATCH"
	case ErrInvalidSlot:
		return "INVALID_SLOT"
	case ErrDuplicate:
		return "DUPLICATE"
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrInvalidMonitor:
		return "INVALID_MONITOR"
	case ErrNotMonitorOwner:
		return "NOT_MONITOR_OWNER"
	case ErrInterrupt:
		return "INTERRUPT"
	case ErrInvalidClassFormat:
		return "INVALID_CLASS_FORMAT"
	case ErrCircularClassDefinition:
		return "CIRCULAR_CLASS_DEFINITION"
	case ErrFailsVerification:
		return "FAILS_VERIFICATION"
	case ErrAddMethodNotImplemented:
		return "ADD_METHOD_NOT_IMPLEMENTED"
	case ErrSchemaChangeNotImplemented:
		return "SCHEMA_CHANGE_NOT_IMPLEMENTED"
	case ErrInvalidTypestate:
		return "INVALID_TYPESTATE"
	case ErrHierarchyChangeNotImplemented:
		return "HIERARCHY_CHANGE_NOT_IMPLEMENTED"
	case ErrDeleteMethodNotImplemented:
		return "DELETE_METHOD_NOT_IMPLEMENTED"
	case ErrUnsupportedVersion:
		return "UNSUPPORTED_VERSION"
	case ErrNamesDontMatch:
		return "NAMES_DONT_MATCH"
	case ErrClassModifiersChangeNotImplemented:
		return "CLASS_MODIFIERS_CHANGE_NOT_IMPLEMENTED"
	case ErrMethodModifiersChangeNotImplemented:
		return "METHOD_MODIFIERS_CHANGE_NOT_IMPLEMENTED"
	case ErrNotImplemented:
		return "NOT_IMPLEMENTED"
	case ErrNullPointer:
		return "NULL_POINTER"
	case ErrAbsentInformation:
		return "ABSENT_INFORMATION"
	case ErrInvalidEventType:
		return "INVALID_EVENT_TYPE"
	case ErrIllegalArgument:
		return "ILLEGAL_ARGUMENT"
	case ErrOutOfMemory:
		return "OUT_OF_MEMORY"
	case ErrAccessDenied:
		return "ACCESS_DENIED"
	case ErrVMDead:
		return "VM_DEAD"
	case ErrInternal:
		return "INTERNAL"
	case ErrUnattachedThread:
		return "UNATTACHED_THREAD"
	case ErrInvalidTag:
		return "INVALID_TAG"
	case ErrAlreadyInvoking:
		return "ALREADY_INVOKING"
	case ErrInvalidIndex:
		return "INVALID_INDEX"
	case ErrInvalidLength:
		return "INVALID_LENGTH"
	case ErrInvalidString:
		return "INVALID_STRING"
	case ErrInvalidClassLoader:
		return "INVALID_CLASS_LOADER"
	case ErrInvalidArray:
		return "INVALID_ARRAY"
	case ErrTransportLoad:
		return "TRANSPORT_LOAD"
	case ErrTransportInit:
		return "TRANSPORT_INIT"
	case ErrNativeMethod:
		return "NATIVE_METHOD"
	case ErrInvalidCount:
		return "INVALID_COUNT"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Error implements the error interface, reporting both the numeric code
// and its canonical name so a caller matching on Error() output still sees
// the code for a name this client doesn't recognize.
func (e Error) Error() string {
	return fmt.Sprintf("JDWP error %d: %s", uint16(e), e.Name())
}

// JdwpError is returned by a command when the peer's reply carries a
// non-zero error code. Callers that need to branch on the specific code
// should compare against the Code field rather than the error string.
type JdwpError struct {
	Code Error
}

func (e *JdwpError) Error() string { return e.Code.Error() }

// Is reports whether target is the same JDWP error code, so callers can
// use errors.Is(err, jdwp.ErrInvalidSlot) instead of a type assertion.
func (e *JdwpError) Is(target error) bool {
	code, ok := target.(Error)
	return ok && code == e.Code
}

// Sentinel connection-lifecycle errors (spec.md §7 taxonomy).
var (
	// ErrInvalidHandshake is returned by Open when the peer doesn't echo
	// back the literal "JDWP-Handshake" token.
	ErrInvalidHandshake = errors.New("jdwp: invalid handshake")

	// ErrDisconnected is returned by any in-flight or future submission
	// once the demultiplexer has shut down.
	ErrDisconnected = errors.New("jdwp: connection disconnected")

	// ErrProtocol wraps malformed framing, oversize packets, decode
	// underflow, and unknown tags/kinds. Use errors.Is(err,
	// jdwp.ErrProtocol) after wrapping with protocolErrorf.
	ErrProtocol = errors.New("jdwp: protocol violation")
)

// protocolErrorf wraps ErrProtocol with a formatted, human-readable cause.
func protocolErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrProtocol, format, args...)
}
