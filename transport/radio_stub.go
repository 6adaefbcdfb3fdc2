// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"context"
	"errors"
)

// ErrRadioUnavailable is returned by RadioStubTransport's Send and Receive
// (Start and Stop are no-ops that succeed): the
// physical radio (BLE GATT, Wi-Fi Direct, LoRaWAN) this stub represents
// is not reachable from a Go process in this environment. The stub
// exists so DHT/gateway code can be written and tested against the
// MeshTransport interface today, and a real radio driver dropped in
// later without touching call sites.
var ErrRadioUnavailable = errors.New("transport: radio transport unavailable in this environment")

// RadioStubTransport documents the shape a Bluetooth-LE, Wi-Fi Direct,
// or LoRaWAN transport would take without implementing radio I/O.
type RadioStubTransport struct {
	local PeerId
}

// NewBluetoothStub constructs a stub addressed as a GATT URI.
func NewBluetoothStub(gattURI string) *RadioStubTransport {
	return &RadioStubTransport{local: Bluetooth(gattURI)}
}

// NewWiFiDirectStub constructs a stub addressed as a Wi-Fi Direct peer.
func NewWiFiDirectStub(addr string) *RadioStubTransport {
	return &RadioStubTransport{local: WiFiDirect(addr)}
}

// NewLoRaWANStub constructs a stub addressed by device EUI.
func NewLoRaWANStub(devEUI string) *RadioStubTransport {
	return &RadioStubTransport{local: LoRaWAN(devEUI)}
}

// NewMeshStub constructs a stub for a generic opaque mesh identifier
// (e.g. a phone-to-phone store-and-forward relay id).
func NewMeshStub(id string) *RadioStubTransport {
	return &RadioStubTransport{local: Mesh(id)}
}

func (s *RadioStubTransport) LocalPeerID() PeerId { return s.local }

func (s *RadioStubTransport) Send(context.Context, PeerId, []byte, int) error {
	return ErrRadioUnavailable
}

func (s *RadioStubTransport) Receive(context.Context) ([]byte, PeerId, error) {
	return nil, PeerId{}, ErrRadioUnavailable
}

func (s *RadioStubTransport) Start(context.Context) error { return nil }

func (s *RadioStubTransport) Stop() error { return nil }
