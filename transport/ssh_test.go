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
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// startTestSSHServer listens on 127.0.0.1:0, accepts a single SSH connection
// with no client authentication, and echoes bytes on the first
// "direct-tcpip" channel it opens (the channel type ssh.Client.Dial uses for
// port forwarding). It returns the listener's address; callers are
// responsible for stopping it by closing the returned listener.
func startTestSSHServer(t *testing.T) (addr string, ln net.Listener) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer, err := ssh.NewSignerFromKey(key)
	require.NoError(t, err)

	config := &ssh.ServerConfig{NoClientAuth: true}
	config.AddHostKey(signer)

	ln, err = net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		sconn, chans, reqs, err := ssh.NewServerConn(conn, config)
		if err != nil {
			return
		}
		go ssh.DiscardRequests(reqs)
		go func() {
			defer sconn.Close()
			for newChannel := range chans {
				if newChannel.ChannelType() != "direct-tcpip" {
					newChannel.Reject(ssh.UnknownChannelType, "unsupported channel type")
					continue
				}
				ch, requests, err := newChannel.Accept()
				if err != nil {
					continue
				}
				go ssh.DiscardRequests(requests)
				go func(ch ssh.Channel) {
					defer ch.Close()
					io.Copy(ch, ch) // echo
				}(ch)
			}
		}()
	}()

	return ln.Addr().String(), ln
}

func testSSHClientConfig() *ssh.ClientConfig {
	return &ssh.ClientConfig{
		User:            "jdwp",
		Auth:            []ssh.AuthMethod{},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         time.Second,
	}
}

func TestDialSSHTunnelsToRemotePort(t *testing.T) {
	addr, ln := startTestSSHServer(t)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	conn, err := DialSSH(ctx, addr, testSSHClientConfig(), 5005)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("JDWP-Handshake"))
	require.NoError(t, err)

	buf := make([]byte, len("JDWP-Handshake"))
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, "JDWP-Handshake", string(buf))
}

func TestDialSSHFailsOnUnreachableHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := DialSSH(ctx, "192.0.2.1:22", testSSHClientConfig(), 5005)
	assert.Error(t, err)
}

func TestDialSSHFailsWhenHandshakeRejected(t *testing.T) {
	addr, ln := startTestSSHServer(t)
	defer ln.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	badConfig := testSSHClientConfig()
	badConfig.HostKeyCallback = func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		return errors.New("host key rejected")
	}

	_, err := DialSSH(ctx, addr, badConfig, 5005)
	assert.Error(t, err)
}
