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

// Version describes the target VM and the JDWP dialect it speaks.
type Version struct {
	Description string // Free-text VM version information.
	JDWPMajor   int32  // Major JDWP version number.
	JDWPMinor   int32  // Minor JDWP version number.
	Version     string // Target VM version, as in the java.version property.
	Name        string // Target VM name, as in the java.vm.name property.
}

// GetVersion returns the JDWP and target VM version information.
func (c *Connection) GetVersion() (Version, error) {
	var res Version
	err := c.get(cmdVirtualMachineVersion, struct{}{}, &res)
	return res, err
}

// ClassInfo describes a single loaded class matching a requested signature.
type ClassInfo struct {
	Kind      TypeTag         // Kind of reference type.
	TypeID    ReferenceTypeID // Matching loaded reference type.
	Signature string          // The class signature (not sent on the wire; filled in from the request).
	Status    ClassStatus     // The class status.
}

// ClassID returns the class identifier for this ClassInfo.
func (ci ClassInfo) ClassID() ClassID { return ClassID(ci.TypeID) }

// GetClassesBySignature returns every loaded class matching signature.
func (c *Connection) GetClassesBySignature(signature string) ([]ClassInfo, error) {
	var res []struct {
		Kind   TypeTag
		TypeID ReferenceTypeID
		Status ClassStatus
	}
	err := c.get(cmdVirtualMachineClassesBySignature, signature, &res)
	if err != nil {
		return nil, err
	}
	out := make([]ClassInfo, len(res))
	for i, r := range res {
		out[i] = ClassInfo{r.Kind, r.TypeID, signature, r.Status}
	}
	return out, nil
}

// GetAllThreads returns the identifiers of every thread currently running
// in the target VM.
func (c *Connection) GetAllThreads() ([]ThreadID, error) {
	var res []ThreadID
	err := c.get(cmdVirtualMachineAllThreads, struct{}{}, &res)
	return res, err
}

// IDSizes describes the byte width of each variably-sized identifier kind.
type IDSizes struct {
	FieldIDSize         int32
	MethodIDSize        int32
	ObjectIDSize        int32
	ReferenceTypeIDSize int32
	FrameIDSize         int32
}

// GetIDSizes queries the width, in bytes, of each identifier kind the peer
// uses on the wire.
func (c *Connection) GetIDSizes() (IDSizes, error) {
	var res IDSizes
	err := c.get(cmdVirtualMachineIDSizes, struct{}{}, &res)
	return res, err
}

// SuspendAll suspends every thread in the target VM.
func (c *Connection) SuspendAll() error {
	return c.get(cmdVirtualMachineSuspend, struct{}{}, nil)
}

// ResumeAll resumes every thread in the target VM.
func (c *Connection) ResumeAll() error {
	return c.get(cmdVirtualMachineResume, struct{}{}, nil)
}
