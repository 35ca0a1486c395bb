package types

import "encoding/hex"

// SelectorLength is the number of leading call-data bytes used to route a
// call to a recognized entry point.
const SelectorLength = 4

// MethodSelector is the first four bytes of the keccak-256 digest of a
// method's canonical signature.
type MethodSelector [SelectorLength]byte

// SelectorOf derives the selector for a canonical signature such as
// "setFallbackHandler(address)".
func SelectorOf(signature string) MethodSelector {
	h := Keccak256([]byte(signature))
	var sel MethodSelector
	copy(sel[:], h[:SelectorLength])
	return sel
}

// SelectorFromInput reads the selector off the front of call input. The
// second return is false when the input is too short to carry one.
func SelectorFromInput(input []byte) (MethodSelector, bool) {
	if len(input) < SelectorLength {
		return MethodSelector{}, false
	}
	var sel MethodSelector
	copy(sel[:], input[:SelectorLength])
	return sel, true
}

func (s MethodSelector) String() string {
	return "0x" + hex.EncodeToString(s[:])
}
