// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSetActive(t *testing.T) {
	assert.Equal(t, [8]byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF}, EncodeSetActive(false))
	assert.Equal(t, [8]byte{0x01, 0x01, 0x01, 0x00, 0x00, 0x00, 0xFE, 0xFF}, EncodeSetActive(true))
}

func TestDecodeSetActive(t *testing.T) {
	active, err := DecodeSetActive([8]byte{0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0xFF, 0xFF})
	require.NoError(t, err)
	assert.False(t, active)

	active, err = DecodeSetActive([8]byte{0x01, 0x01, 0x01, 0x00, 0x00, 0x00, 0xFE, 0xFF})
	require.NoError(t, err)
	assert.True(t, active)
}

func TestDecodeSetActiveBadChecksum(t *testing.T) {
	_, err := DecodeSetActive([8]byte{0x01, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00})
	assert.ErrorIs(t, err, ErrBadChecksum)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, active := range []bool{true, false} {
		frame := EncodeSetActive(active)
		got, err := DecodeSetActive(frame)
		require.NoError(t, err)
		assert.Equal(t, active, got)
	}
}
