// Package rlp provides the narrow slice of RLP encoding needed to derive a
// CREATE contract address: transaction signing and general RLP decoding
// aren't implemented here.
package rlp

// EncodeBytes encodes a byte slice as an RLP string.
func EncodeBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	if len(b) < 56 {
		return append([]byte{byte(0x80 + len(b))}, b...)
	}
	lenBytes := uintToMinBytes(uint64(len(b)))
	header := append([]byte{byte(0xb7 + len(lenBytes))}, lenBytes...)
	return append(header, b...)
}

// EncodeUint encodes a uint64 as an RLP integer.
func EncodeUint(v uint64) []byte {
	if v == 0 {
		return []byte{0x80}
	}
	if v < 128 {
		return []byte{byte(v)}
	}
	b := uintToMinBytes(v)
	return append([]byte{byte(0x80 + len(b))}, b...)
}

// WrapList wraps payload bytes in an RLP list header.
func WrapList(payload []byte) []byte {
	if len(payload) < 56 {
		return append([]byte{byte(0xc0 + len(payload))}, payload...)
	}
	lenBytes := uintToMinBytes(uint64(len(payload)))
	header := append([]byte{byte(0xf7 + len(lenBytes))}, lenBytes...)
	return append(header, payload...)
}

// uintToMinBytes encodes v as big-endian bytes with no leading zeros.
func uintToMinBytes(v uint64) []byte {
	if v == 0 {
		return nil
	}
	var buf [8]byte
	n := 0
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
		if buf[i] != 0 {
			n = 8 - i
		}
	}
	return buf[8-n:]
}

// ContractAddress computes the CREATE address: keccak256(rlp([sender,
// nonce]))[12:], i.e. the low 160 bits of the hash of the RLP-encoded
// [sender_address_20_bytes, nonce_minimal_big_endian] list.
func ContractAddress(sender [20]byte, nonce uint64, keccak256 func([]byte) []byte) [20]byte {
	addrEnc := EncodeBytes(sender[:])
	nonceEnc := EncodeUint(nonce)
	payload := append(append([]byte{}, addrEnc...), nonceEnc...)
	data := WrapList(payload)

	hash := keccak256(data)
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr
}
