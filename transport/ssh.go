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

package transport

import (
	"context"
	"fmt"
	"net"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
)

// DialSSH opens an SSH connection to host using config, then tunnels a TCP
// connection to remotePort on the far side of that connection (i.e. the
// loopback address as seen by the remote host) — the same
// ssh.Client.Dial("tcp", ...) tunneling pattern used to reach a port bound
// only on a remote machine's loopback interface. The returned conn owns the
// SSH client: closing it tears down the tunnel and closes the client too, so
// a single DialSSH serves a single JDWP session.
func DialSSH(ctx context.Context, host string, config *ssh.ClientConfig, remotePort int) (net.Conn, error) {
	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing ssh host %s", host)
	}

	sshConnCh := make(chan error, 1)
	var client *ssh.Client
	go func() {
		c, chans, reqs, err := ssh.NewClientConn(raw, host, config)
		if err != nil {
			sshConnCh <- err
			return
		}
		client = ssh.NewClient(c, chans, reqs)
		sshConnCh <- nil
	}()

	select {
	case err := <-sshConnCh:
		if err != nil {
			raw.Close()
			return nil, errors.Wrapf(err, "establishing ssh connection to %s", host)
		}
	case <-ctx.Done():
		raw.Close()
		return nil, ctx.Err()
	}

	remote, err := client.Dial("tcp", fmt.Sprintf("localhost:%d", remotePort))
	if err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "tunneling to remote port %d", remotePort)
	}
	return &tunnelConn{Conn: remote, client: client}, nil
}

// tunnelConn closes the owning SSH client alongside the tunneled connection,
// so callers only need to Close() the conn jdwp.Open was given.
type tunnelConn struct {
	net.Conn
	client *ssh.Client
}

func (t *tunnelConn) Close() error {
	err := t.Conn.Close()
	t.client.Close()
	return err
}
