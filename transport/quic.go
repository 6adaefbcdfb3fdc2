// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
)

// QUICTransport is a low-latency MeshTransport over QUIC streams, used
// for bulk/forward-secret links where the UDP transport's plain
// datagrams aren't enough (e.g. large STORE payloads). Session-level
// confidentiality still comes from the UHP/qzmq layer above this
// transport; the TLS here provides only stream framing and congestion
// control, so an unauthenticated self-signed certificate is acceptable.
type QUICTransport struct {
	listener *quic.Listener
	local    PeerId

	mu    sync.Mutex
	conns map[string]quic.Connection

	inbox chan inboundMessage
}

type inboundMessage struct {
	payload []byte
	from    PeerId
}

// NewQUICTransport listens for QUIC connections at addr.
func NewQUICTransport(addr string) (*QUICTransport, error) {
	tlsConf, err := selfSignedTLSConfig()
	if err != nil {
		return nil, fmt.Errorf("transport: build quic tls config: %w", err)
	}
	ln, err := quic.ListenAddr(addr, tlsConf, &quic.Config{MaxIdleTimeout: 5 * time.Minute})
	if err != nil {
		return nil, fmt.Errorf("transport: listen quic: %w", err)
	}
	return &QUICTransport{
		listener: ln,
		local:    Quic(ln.Addr().String()),
		conns:    make(map[string]quic.Connection),
		inbox:    make(chan inboundMessage, 256),
	}, nil
}

func (t *QUICTransport) LocalPeerID() PeerId { return t.local }

func (t *QUICTransport) Start(ctx context.Context) error {
	go t.acceptLoop(ctx)
	return nil
}

func (t *QUICTransport) acceptLoop(ctx context.Context) {
	for {
		conn, err := t.listener.Accept(ctx)
		if err != nil {
			return
		}
		go t.handleConn(ctx, conn)
	}
}

func (t *QUICTransport) handleConn(ctx context.Context, conn quic.Connection) {
	peer := Quic(conn.RemoteAddr().String())
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}
		go func() {
			data, err := io.ReadAll(stream)
			if err != nil {
				return
			}
			select {
			case t.inbox <- inboundMessage{payload: data, from: peer}:
			case <-ctx.Done():
			}
		}()
	}
}

func (t *QUICTransport) dial(ctx context.Context, addr string) (quic.Connection, error) {
	t.mu.Lock()
	if conn, ok := t.conns[addr]; ok {
		t.mu.Unlock()
		return conn, nil
	}
	t.mu.Unlock()

	tlsConf := &tls.Config{InsecureSkipVerify: true, NextProtos: []string{"web4-dht"}}
	conn, err := quic.DialAddr(ctx, addr, tlsConf, nil)
	if err != nil {
		return nil, fmt.Errorf("transport: dial quic %s: %w", addr, err)
	}

	t.mu.Lock()
	t.conns[addr] = conn
	t.mu.Unlock()
	return conn, nil
}

func (t *QUICTransport) Send(ctx context.Context, peer PeerId, payload []byte, _priority int) error {
	if peer.Kind != KindQUIC {
		return fmt.Errorf("transport: quic transport cannot address kind %s", peer.Kind)
	}
	conn, err := t.dial(ctx, peer.Value)
	if err != nil {
		return err
	}
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		return fmt.Errorf("transport: open quic stream: %w", err)
	}
	if _, err := stream.Write(payload); err != nil {
		return fmt.Errorf("transport: write quic stream: %w", err)
	}
	return stream.Close()
}

func (t *QUICTransport) Receive(ctx context.Context) ([]byte, PeerId, error) {
	select {
	case msg := <-t.inbox:
		return msg.payload, msg.from, nil
	case <-ctx.Done():
		return nil, PeerId{}, ctx.Err()
	}
}

func (t *QUICTransport) Stop() error {
	t.mu.Lock()
	for _, conn := range t.conns {
		_ = conn.CloseWithError(0, "transport stopped")
	}
	t.mu.Unlock()
	if t.listener == nil {
		return nil
	}
	return t.listener.Close()
}

// selfSignedTLSConfig generates an ephemeral, unauthenticated
// certificate so QUIC can establish its transport-layer handshake
// without relying on a PKI this mesh does not have.
func selfSignedTLSConfig() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}
	template := x509.Certificate{SerialNumber: big.NewInt(1)}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, err
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, err
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, NextProtos: []string{"web4-dht"}}, nil
}
