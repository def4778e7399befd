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

// LineTableEntry maps a byte-code index to a source line number.
type LineTableEntry struct {
	CodeIndex uint64
	Line      int32
}

// LineTable describes the mapping from byte-code index to source line for a
// single method.
type LineTable struct {
	Start uint64
	End   uint64
	Lines []LineTableEntry
}

// GetLineTable returns the byte-code-index-to-line mapping for method on
// classTy.
func (c *Connection) GetLineTable(classTy ReferenceTypeID, method MethodID) (LineTable, error) {
	req := struct {
		Class  ReferenceTypeID
		Method MethodID
	}{classTy, method}
	var res LineTable
	err := c.get(cmdMethodLineTable, req, &res)
	return res, err
}

// GetVariableTable returns every local variable visible anywhere in method
// on classTy.
func (c *Connection) GetVariableTable(classTy ReferenceTypeID, method MethodID) (VariableTable, error) {
	req := struct {
		Class  ReferenceTypeID
		Method MethodID
	}{classTy, method}
	var res VariableTable
	err := c.get(cmdMethodVariableTable, req, &res)
	return res, err
}
