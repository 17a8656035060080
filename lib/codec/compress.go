// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstd encoders and decoders are safe for concurrent EncodeAll and
// DecodeAll calls and expensive to build, so one of each is shared.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
	)
	if err != nil {
		panic("codec: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("codec: zstd decoder initialization failed: " + err.Error())
	}
}

// Pack encodes v as deterministic CBOR and compresses it with zstd.
func Pack(v any) ([]byte, error) {
	data, err := Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding CBOR: %w", err)
	}
	return zstdEncoder.EncodeAll(data, nil), nil
}

// Unpack reverses Pack into v.
func Unpack(packed []byte, v any) error {
	data, err := zstdDecoder.DecodeAll(packed, nil)
	if err != nil {
		return fmt.Errorf("decompressing zstd: %w", err)
	}
	if err := Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding CBOR: %w", err)
	}
	return nil
}
