// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeerIdConstructors(t *testing.T) {
	require.Equal(t, KindUDP, Udp("1.2.3.4:9000").Kind)
	require.Equal(t, KindQUIC, Quic("1.2.3.4:9001").Kind)
	require.Equal(t, KindBluetooth, Bluetooth("gatt://xyz").Kind)
	require.Equal(t, KindWiFiDirect, WiFiDirect("10.0.0.1").Kind)
	require.Equal(t, KindLoRaWAN, LoRaWAN("00-00-00-00-00-00-00-01").Kind)
	require.Equal(t, KindMesh, Mesh("node-42").Kind)
}

func TestPeerIdString(t *testing.T) {
	require.Equal(t, "udp:1.2.3.4:9000", Udp("1.2.3.4:9000").String())
}

func TestRadioStubAlwaysUnavailable(t *testing.T) {
	s := NewBluetoothStub("gatt://xyz")
	err := s.Send(context.Background(), PeerId{}, nil, 0)
	require.ErrorIs(t, err, ErrRadioUnavailable)
}
