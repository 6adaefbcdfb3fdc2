// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"context"
	"fmt"
	"net"
)

// UDPTransport is the default wide-area MeshTransport: one UDP socket,
// datagram-per-message, no fragmentation (callers are expected to keep
// DHT envelopes under the path MTU).
type UDPTransport struct {
	conn  *net.UDPConn
	local PeerId
}

// maxUDPDatagram bounds a single inbound read; DHT envelopes are small
// fixed-field structures and never approach this.
const maxUDPDatagram = 64 * 1024

// NewUDPTransport binds a UDP socket at addr ("host:port", "" host
// meaning all interfaces) and returns a transport addressed by it.
func NewUDPTransport(addr string) (*UDPTransport, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve udp addr: %w", err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, fmt.Errorf("transport: listen udp: %w", err)
	}
	return &UDPTransport{conn: conn, local: Udp(conn.LocalAddr().String())}, nil
}

func (t *UDPTransport) LocalPeerID() PeerId { return t.local }

func (t *UDPTransport) Send(ctx context.Context, peer PeerId, payload []byte, _priority int) error {
	if peer.Kind != KindUDP {
		return fmt.Errorf("transport: udp transport cannot address kind %s", peer.Kind)
	}
	addr, err := net.ResolveUDPAddr("udp", peer.Value)
	if err != nil {
		return fmt.Errorf("transport: resolve peer addr: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(deadline)
	}
	_, err = t.conn.WriteToUDP(payload, addr)
	return err
}

func (t *UDPTransport) Receive(ctx context.Context) ([]byte, PeerId, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetReadDeadline(deadline)
	}
	buf := make([]byte, maxUDPDatagram)
	n, addr, err := t.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, PeerId{}, err
	}
	return buf[:n], Udp(addr.String()), nil
}

func (t *UDPTransport) Start(context.Context) error { return nil }

func (t *UDPTransport) Stop() error {
	if t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
