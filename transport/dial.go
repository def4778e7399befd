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

// Package transport provides the socket constructors used to obtain the
// io.ReadWriteCloser that jdwp.Open requires: a plain TCP dial for a
// debuggee listening locally or already port-forwarded, and an SSH-tunneled
// dial for one reachable only through a remote host.
package transport

import (
	"context"
	"net"

	"github.com/pkg/errors"
)

// DialTCP connects to a JDWP listener at addr (host:port). ctx bounds only
// the connection attempt; once established the connection has no deadline.
func DialTCP(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing jdwp listener at %s", addr)
	}
	return conn, nil
}
