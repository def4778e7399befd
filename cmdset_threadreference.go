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

// FrameInfo describes one frame of a thread's call stack.
type FrameInfo struct {
	Frame    FrameID
	Location Location
}

// GetFrames returns up to count stack frames of thread, starting at depth
// start (0 is the current frame). A count of -1 requests every remaining
// frame.
func (c *Connection) GetFrames(thread ThreadID, start, count int32) ([]FrameInfo, error) {
	req := struct {
		Thread       ThreadID
		Start, Count int32
	}{thread, start, count}
	var res []FrameInfo
	err := c.get(cmdThreadReferenceFrames, req, &res)
	return res, err
}
