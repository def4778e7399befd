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

import "fmt"

// cmdID is the command byte within a command-set namespace.
type cmdID uint8

// cmd is a fully-qualified (command-set, command) pair, sent as the two
// bytes immediately following a command packet's flags byte.
type cmd struct {
	set cmdSet
	id  cmdID
}

func (c cmd) String() string { return fmt.Sprintf("%v/%d", c.set, c.id) }

func (s cmdSet) String() string {
	switch s {
	case cmdSetVirtualMachine:
		return "VirtualMachine"
	case cmdSetReferenceType:
		return "ReferenceType"
	case cmdSetClassType:
		return "ClassType"
	case cmdSetArrayType:
		return "ArrayType"
	case cmdSetInterfaceType:
		return "InterfaceType"
	case cmdSetMethod:
		return "Method"
	case cmdSetField:
		return "Field"
	case cmdSetObjectReference:
		return "ObjectReference"
	case cmdSetStringReference:
		return "StringReference"
	case cmdSetThreadReference:
		return "ThreadReference"
	case cmdSetThreadGroupReference:
		return "ThreadGroupReference"
	case cmdSetArrayReference:
		return "ArrayReference"
	case cmdSetClassLoaderReference:
		return "ClassLoaderReference"
	case cmdSetEventRequest:
		return "EventRequest"
	case cmdSetStackFrame:
		return "StackFrame"
	case cmdSetClassObjectReference:
		return "ClassObjectReference"
	case cmdSetEvent:
		return "Event"
	default:
		return fmt.Sprintf("cmdSet<%d>", uint8(s))
	}
}

// The command surface this client supports (spec.md §4.5), qualified by
// their standard JDWP command-set and command numbers.
var (
	cmdVirtualMachineVersion            = cmd{cmdSetVirtualMachine, 1}
	cmdVirtualMachineClassesBySignature = cmd{cmdSetVirtualMachine, 2}
	cmdVirtualMachineAllThreads         = cmd{cmdSetVirtualMachine, 4}
	cmdVirtualMachineIDSizes            = cmd{cmdSetVirtualMachine, 7}
	cmdVirtualMachineSuspend            = cmd{cmdSetVirtualMachine, 8}
	cmdVirtualMachineResume             = cmd{cmdSetVirtualMachine, 9}

	cmdReferenceTypeFields  = cmd{cmdSetReferenceType, 4}
	cmdReferenceTypeMethods = cmd{cmdSetReferenceType, 5}

	cmdMethodLineTable     = cmd{cmdSetMethod, 1}
	cmdMethodVariableTable = cmd{cmdSetMethod, 2}

	cmdObjectReferenceReferenceType = cmd{cmdSetObjectReference, 1}
	cmdObjectReferenceGetValues     = cmd{cmdSetObjectReference, 2}

	cmdStringReferenceValue = cmd{cmdSetStringReference, 1}

	cmdThreadReferenceFrames = cmd{cmdSetThreadReference, 6}

	cmdStackFrameGetValues = cmd{cmdSetStackFrame, 1}

	cmdEventRequestSet   = cmd{cmdSetEventRequest, 1}
	cmdEventRequestClear = cmd{cmdSetEventRequest, 2}

	cmdEventComposite = cmd{cmdSetEvent, 100}
)
