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

// ObjectType describes the runtime type of an object.
type ObjectType struct {
	Kind TypeTag
	Type ReferenceTypeID
}

// GetObjectType returns the runtime type of object.
func (c *Connection) GetObjectType(object ObjectID) (ObjectType, error) {
	var res ObjectType
	err := c.get(cmdObjectReferenceReferenceType, object, &res)
	return res, err
}

// GetFieldValues returns the values of the requested instance fields of
// object.
func (c *Connection) GetFieldValues(object ObjectID, fields ...FieldID) ([]Value, error) {
	req := struct {
		Object ObjectID
		Fields []FieldID
	}{object, fields}
	var res []Value
	err := c.get(cmdObjectReferenceGetValues, req, &res)
	return res, err
}
