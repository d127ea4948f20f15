package keys

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// NetworkSS58Format is the Hypertensor network's SS58 address format
// identifier. Every wallet operation encodes and decodes with this constant;
// creation and loading must agree or addresses silently mismatch.
const NetworkSS58Format = 42

// ss58Prefix is the checksum domain separator defined by the SS58 spec.
var ss58Prefix = []byte("SS58PRE")

// EncodeSS58 encodes a 32-byte public key as an SS58 address for the given
// network format. Only single-byte formats (0..63) are supported.
func EncodeSS58(pub []byte, format uint16) (string, error) {
	if len(pub) != 32 {
		return "", fmt.Errorf("public key must be 32 bytes, got %d", len(pub))
	}
	if format > 63 {
		return "", fmt.Errorf("unsupported ss58 format %d (only 0..63)", format)
	}

	data := make([]byte, 0, 1+len(pub)+2)
	data = append(data, byte(format))
	data = append(data, pub...)
	data = append(data, ss58Checksum(data)...)
	return base58.Encode(data), nil
}

// DecodeSS58 decodes an SS58 address, returning the network format and the
// 32-byte public key. The checksum is verified.
func DecodeSS58(addr string) (uint16, []byte, error) {
	data, err := base58.Decode(addr)
	if err != nil {
		return 0, nil, fmt.Errorf("decode base58: %w", err)
	}
	if len(data) != 1+32+2 {
		return 0, nil, fmt.Errorf("ss58 payload must be 35 bytes, got %d", len(data))
	}
	if data[0] > 63 {
		return 0, nil, fmt.Errorf("unsupported ss58 format %d", data[0])
	}

	body := data[:len(data)-2]
	if !bytes.Equal(data[len(data)-2:], ss58Checksum(body)) {
		return 0, nil, fmt.Errorf("ss58 checksum mismatch")
	}

	pub := make([]byte, 32)
	copy(pub, body[1:])
	return uint16(data[0]), pub, nil
}

// ss58Checksum returns the first two bytes of BLAKE2b-512("SS58PRE" || data).
func ss58Checksum(data []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(ss58Prefix)
	h.Write(data)
	return h.Sum(nil)[:2]
}
