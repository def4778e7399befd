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

// Package wire provides checked, big-endian primitive accessors over a byte
// stream. Every JDWP scalar is network byte order; the reader and writer
// here are the only place that byte order is decided.
//
// A Reader is sticky: once an underlying read fails, every subsequent
// accessor returns the zero value without touching the stream again, and
// Err reports the first error encountered. This lets a decoder call a long
// chain of accessors and check for failure once at the end, the same
// pattern the teacher's core/data/binary and core/data/endian packages use.
package wire
