package account

import (
	"golang.org/x/xerrors"

	"github.com/portico-labs/portico/types"
)

// Call-data helpers for the account's recognized entry points. Layout
// follows the standard head/tail word encoding: static arguments occupy one
// 32-byte word each; a bytes argument's head word holds the tail offset, and
// the tail holds a length word followed by the data, zero-padded to a word
// boundary.

func EncodeSetFallbackHandler(handler types.Address) []byte {
	word := types.WordFromAddress(handler)
	return append(MethodSetFallbackHandler[:], word[:]...)
}

func EncodeGetFallbackHandler() []byte {
	return MethodGetFallbackHandler[:]
}

func EncodeExecTransaction(to types.Address, payload []byte) []byte {
	out := make([]byte, 0, types.SelectorLength+3*types.WordSize+padded(len(payload)))
	out = append(out, MethodExecTransaction[:]...)

	toWord := types.WordFromAddress(to)
	out = append(out, toWord[:]...)

	// Tail offset, relative to the start of the arguments.
	offWord := types.WordFromUint64(2 * types.WordSize)
	out = append(out, offWord[:]...)

	lenWord := types.WordFromUint64(uint64(len(payload)))
	out = append(out, lenWord[:]...)
	out = append(out, payload...)
	out = append(out, make([]byte, padded(len(payload))-len(payload))...)
	return out
}

func padded(n int) int {
	if rem := n % types.WordSize; rem != 0 {
		return n + types.WordSize - rem
	}
	return n
}

// decodeCallArgs decodes the (address,bytes) argument pair of
// execTransaction.
func decodeCallArgs(args []byte) (types.Address, []byte, error) {
	if len(args) < 2*types.WordSize {
		return types.Address{}, nil, xerrors.Errorf("want at least %d bytes of arguments, got %d", 2*types.WordSize, len(args))
	}

	var toWord types.Hash
	copy(toWord[:], args[:types.WordSize])
	to := types.AddressFromWord(toWord)

	// Bounds are checked against the remaining space; summing untrusted
	// offset/length words can wrap around.
	offset, err := types.Uint64FromWord(args[types.WordSize : 2*types.WordSize])
	if err != nil {
		return types.Address{}, nil, xerrors.Errorf("bad payload offset: %w", err)
	}
	if offset > uint64(len(args))-types.WordSize {
		return types.Address{}, nil, xerrors.Errorf("payload offset %d out of bounds", offset)
	}

	length, err := types.Uint64FromWord(args[offset : offset+types.WordSize])
	if err != nil {
		return types.Address{}, nil, xerrors.Errorf("bad payload length: %w", err)
	}
	start := offset + types.WordSize
	if length > uint64(len(args))-start {
		return types.Address{}, nil, xerrors.Errorf("payload of %d bytes at offset %d out of bounds", length, offset)
	}

	return to, args[start : start+length], nil
}
