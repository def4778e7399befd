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

// GetFields returns every field declared directly by the specified
// reference type.
func (c *Connection) GetFields(ty ReferenceTypeID) (Fields, error) {
	var res Fields
	err := c.get(cmdReferenceTypeFields, ty, &res)
	return res, err
}

// GetMethods returns every method declared directly by the specified
// reference type.
func (c *Connection) GetMethods(ty ReferenceTypeID) (Methods, error) {
	var res Methods
	err := c.get(cmdReferenceTypeMethods, ty, &res)
	return res, err
}
