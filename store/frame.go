// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package store

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
)

// Frame layout, big-endian header:
//
//	[0:4]   magic "AWMS"
//	[4:6]   version
//	[6:8]   schema tag
//	[8:12]  payload length
//	[12:16] crc32 (IEEE) of bytes [0:12] and the payload
//	[16:]   payload
const (
	FrameHeaderSize = 16
	FrameVersion    = 1
)

var FrameMagic = [4]byte{'A', 'W', 'M', 'S'}

var (
	ErrBadMagic           = errors.New("bad frame magic")
	ErrUnsupportedVersion = errors.New("unsupported frame version")
	ErrTruncatedFrame     = errors.New("truncated frame")
	ErrChecksumMismatch   = errors.New("frame checksum mismatch")
	ErrPayloadTooLarge    = errors.New("payload too large for frame")
)

// EncodeFrame prefixes payload with a checksummed header.
func EncodeFrame(tag uint16, payload []byte) ([]byte, error) {
	if uint64(len(payload)) > math.MaxUint32-FrameHeaderSize {
		return nil, fmt.Errorf("%d bytes: %w", len(payload), ErrPayloadTooLarge)
	}

	frame := make([]byte, FrameHeaderSize+len(payload))
	copy(frame[0:4], FrameMagic[:])
	binary.BigEndian.PutUint16(frame[4:6], FrameVersion)
	binary.BigEndian.PutUint16(frame[6:8], tag)
	binary.BigEndian.PutUint32(frame[8:12], uint32(len(payload)))
	copy(frame[FrameHeaderSize:], payload)

	checksum := crc32.ChecksumIEEE(frame[0:12])
	checksum = crc32.Update(checksum, crc32.IEEETable, frame[FrameHeaderSize:])
	binary.BigEndian.PutUint32(frame[12:16], checksum)

	return frame, nil
}

// DecodeFrame validates a frame and returns its tag and payload. The
// payload aliases data.
func DecodeFrame(data []byte) (tag uint16, payload []byte, err error) {
	if len(data) < FrameHeaderSize {
		return 0, nil, fmt.Errorf("%d bytes: %w", len(data), ErrTruncatedFrame)
	}
	if [4]byte(data[0:4]) != FrameMagic {
		return 0, nil, fmt.Errorf("%q: %w", data[0:4], ErrBadMagic)
	}
	if v := binary.BigEndian.Uint16(data[4:6]); v != FrameVersion {
		return 0, nil, fmt.Errorf("version %d: %w", v, ErrUnsupportedVersion)
	}

	tag = binary.BigEndian.Uint16(data[6:8])
	length := binary.BigEndian.Uint32(data[8:12])
	if uint64(length) != uint64(len(data)-FrameHeaderSize) {
		return 0, nil, fmt.Errorf("header length %d, have %d: %w", length, len(data)-FrameHeaderSize, ErrTruncatedFrame)
	}

	checksum := binary.BigEndian.Uint32(data[12:16])
	validated := crc32.ChecksumIEEE(data[0:12])
	validated = crc32.Update(validated, crc32.IEEETable, data[FrameHeaderSize:])
	if checksum != validated {
		return 0, nil, fmt.Errorf("expected %08x, got %08x: %w", checksum, validated, ErrChecksumMismatch)
	}

	return tag, data[FrameHeaderSize:], nil
}
