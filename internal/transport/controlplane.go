// SPDX-License-Identifier: GPL-3.0-or-later

package transport

import (
	"encoding/binary"
	"errors"
)

// cmdSetActive is the only control-plane command this adapter sends
// (spec.md §5.1): it tells the firmware side whether to stream trace
// events, so a collector can be attached and detached without restarting
// the recorder.
const cmdSetActive = 0x01

// ErrBadChecksum reports a control-plane frame whose trailing checksum
// does not cancel its header, per spec.md §5.1.
var ErrBadChecksum = errors.New("transport: bad control-plane checksum")

// EncodeSetActive builds the 8-byte CMD_SET_ACTIVE frame (spec.md §6):
// `01 01 <active> 00 00 00 <checksum_lo> <checksum_hi>`, where the trailing
// 16-bit little-endian checksum is the two's-complement negation of the
// byte-wise sum of frame[1:6]. Inactive encodes as
// `01 01 00 00 00 00 FF FF`, active as `01 01 01 00 00 00 FE FF`.
func EncodeSetActive(active bool) [8]byte {
	var frame [8]byte
	frame[0] = cmdSetActive
	frame[1] = cmdSetActive
	if active {
		frame[2] = 1
	}
	binary.LittleEndian.PutUint16(frame[6:8], checksum(frame))
	return frame
}

// DecodeSetActive validates frame's checksum and returns the active flag
// it carries.
func DecodeSetActive(frame [8]byte) (active bool, err error) {
	if binary.LittleEndian.Uint16(frame[6:8]) != checksum(frame) {
		return false, ErrBadChecksum
	}
	return frame[2] != 0, nil
}

// checksum computes the trailing 16-bit field for frame[6:8]: the
// two's-complement negation, mod 2^16, of the byte-wise sum of frame[1:6].
func checksum(frame [8]byte) uint16 {
	var sum uint16
	for _, b := range frame[1:6] {
		sum += uint16(b)
	}
	return -sum
}
