package types

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/xerrors"
)

// WordSize is the fixed machine-word width used for call-data encoding.
const WordSize = 32

// WordFromAddress right-aligns a 20-byte address in a 32-byte big-endian
// word, zero-padding the high-order bytes.
func WordFromAddress(a Address) Hash {
	var w Hash
	copy(w[WordSize-AddressLength:], a[:])
	return w
}

// AddressFromWord recovers the address from the low-order 20 bytes of a word.
func AddressFromWord(w Hash) Address {
	var a Address
	copy(a[:], w[WordSize-AddressLength:])
	return a
}

// AppendCallerWord builds a forwarded payload: the original payload followed
// by the caller's address right-aligned in one word. The payload may be
// empty; the suffix is appended regardless.
func AppendCallerWord(payload []byte, caller Address) []byte {
	out := make([]byte, 0, len(payload)+WordSize)
	out = append(out, payload...)
	w := WordFromAddress(caller)
	return append(out, w[:]...)
}

// SplitTrailingCaller splits a forwarded payload into the original payload
// and the appended caller address. The trailing word must carry zero padding
// in its high-order bytes.
func SplitTrailingCaller(input []byte) ([]byte, Address, error) {
	if len(input) < WordSize {
		return nil, Address{}, xerrors.Errorf("input of %d bytes has no trailing caller word", len(input))
	}
	var w Hash
	copy(w[:], input[len(input)-WordSize:])
	var pad [WordSize - AddressLength]byte
	if !bytes.Equal(w[:len(pad)], pad[:]) {
		return nil, Address{}, xerrors.Errorf("trailing caller word has non-zero padding")
	}
	return input[:len(input)-WordSize], AddressFromWord(w), nil
}

// SelectorWord encodes a 4-byte selector as a left-aligned word, the
// convention for fixed-size byte-array return values.
func SelectorWord(sel MethodSelector) []byte {
	out := make([]byte, WordSize)
	copy(out, sel[:])
	return out
}

// WordFromUint64 encodes v as a 32-byte big-endian word.
func WordFromUint64(v uint64) Hash {
	var w Hash
	binary.BigEndian.PutUint64(w[WordSize-8:], v)
	return w
}

// Uint64FromWord decodes a 32-byte big-endian word that must fit in 64 bits.
func Uint64FromWord(b []byte) (uint64, error) {
	if len(b) != WordSize {
		return 0, xerrors.Errorf("word must be %d bytes long, got %d", WordSize, len(b))
	}
	var zeros [WordSize - 8]byte
	if !bytes.Equal(b[:len(zeros)], zeros[:]) {
		return 0, xerrors.Errorf("word overflows 64 bits")
	}
	return binary.BigEndian.Uint64(b[len(zeros):]), nil
}
