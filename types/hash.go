package types

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/sha3"
)

const HashLength = 32

// Hash is a 32-byte value: a keccak-256 digest, a storage slot key, or a
// storage slot's contents.
type Hash [HashLength]byte

var ZeroHash = Hash{}

// Keccak256 returns the keccak-256 digest of the concatenation of data.
func Keccak256(data ...[]byte) Hash {
	hasher := sha3.NewLegacyKeccak256()
	for _, d := range data {
		hasher.Write(d)
	}
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}

// ParseHash parses a 0x-prefixed hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	b, err := decodeHexString(s, HashLength)
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	hash, err := ParseHash(s)
	if err != nil {
		return err
	}
	copy(h[:], hash[:])
	return nil
}
