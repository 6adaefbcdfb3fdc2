// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"context"
	"errors"
	"fmt"
)

// Kind discriminates the transport medium a PeerId addresses, per
// spec.md §4.4's tagged union.
type Kind uint8

const (
	KindUDP Kind = iota
	KindBluetooth
	KindWiFiDirect
	KindQUIC
	KindLoRaWAN
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindUDP:
		return "udp"
	case KindBluetooth:
		return "bluetooth"
	case KindWiFiDirect:
		return "wifi_direct"
	case KindQUIC:
		return "quic"
	case KindLoRaWAN:
		return "lorawan"
	case KindMesh:
		return "mesh"
	default:
		return "unknown"
	}
}

// PeerId is a tagged union over the address schemes a DHT message may
// be routed through: Udp(addr) | Bluetooth(gatt-uri) | WiFiDirect(addr)
// | Quic(addr) | LoRaWAN(devEUI) | Mesh(id). Value holds the
// scheme-specific address string (a host:port, a GATT URI, a DevEUI
// hex string, or an opaque mesh node id).
type PeerId struct {
	Kind  Kind
	Value string
}

// Udp constructs a UDP-addressed PeerId.
func Udp(addr string) PeerId { return PeerId{Kind: KindUDP, Value: addr} }

// Quic constructs a QUIC-addressed PeerId.
func Quic(addr string) PeerId { return PeerId{Kind: KindQUIC, Value: addr} }

// Bluetooth constructs a Bluetooth-LE-addressed PeerId from a GATT URI.
func Bluetooth(gattURI string) PeerId { return PeerId{Kind: KindBluetooth, Value: gattURI} }

// WiFiDirect constructs a Wi-Fi Direct-addressed PeerId.
func WiFiDirect(addr string) PeerId { return PeerId{Kind: KindWiFiDirect, Value: addr} }

// LoRaWAN constructs a LoRaWAN-addressed PeerId from a device EUI.
func LoRaWAN(devEUI string) PeerId { return PeerId{Kind: KindLoRaWAN, Value: devEUI} }

// Mesh constructs a generic mesh-addressed PeerId.
func Mesh(id string) PeerId { return PeerId{Kind: KindMesh, Value: id} }

func (p PeerId) String() string { return fmt.Sprintf("%s:%s", p.Kind, p.Value) }

// ErrTransportClosed reports use of a MeshTransport that has already
// been stopped; the transports in this package do not return it.
var ErrTransportClosed = errors.New("transport: transport closed")

// MeshTransport is the DHT-level transport abstraction of spec.md §4.4:
// send/receive/local_peer_id over whichever medium the concrete
// implementation addresses. Distinct from the BFT engine's Transport
// (interfaces.go), which moves consensus messages between already-known
// validator NodeIDs; this interface moves raw DHT envelopes between
// PeerIds that may be reached over UDP, QUIC, or a radio medium.
type MeshTransport interface {
	// LocalPeerID returns this transport's own address.
	LocalPeerID() PeerId
	// Send delivers bytes to peer. Implementations select the address
	// scheme from peer.Kind; bandwidth hints may be propagated via
	// priority (higher sends first when a send queue is contended).
	Send(ctx context.Context, peer PeerId, payload []byte, priority int) error
	// Receive blocks until a message arrives or ctx is canceled.
	Receive(ctx context.Context) (payload []byte, from PeerId, err error)
	// Start begins accepting inbound messages.
	Start(ctx context.Context) error
	// Stop releases the transport's resources.
	Stop() error
}
