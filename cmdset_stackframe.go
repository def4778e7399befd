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

// SlotRequest names a single local-variable slot to fetch, tagged with its
// expected value kind (see the Tag constants).
type SlotRequest struct {
	Slot int32
	Sig  uint8
}

// GetValues returns the values of the requested local-variable slots of
// frame within thread.
func (c *Connection) GetValues(thread ThreadID, frame FrameID, slots []SlotRequest) ([]Value, error) {
	req := struct {
		Thread ThreadID
		Frame  FrameID
		Slots  []SlotRequest
	}{thread, frame, slots}
	var res []Value
	err := c.get(cmdStackFrameGetValues, req, &res)
	return res, err
}
