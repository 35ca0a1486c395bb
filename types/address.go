package types

import (
	"encoding/hex"
	"encoding/json"
	"strings"

	cbornode "github.com/ipfs/go-ipld-cbor"
	"github.com/polydawn/refmt/obj/atlas"
	"golang.org/x/xerrors"
)

const AddressLength = 20

// Address is a 20-byte account identifier, printed as 0x-prefixed hex.
type Address [AddressLength]byte

var ZeroAddress = Address{}

var addressAtlasEntry = atlas.BuildEntry(Address{}).Transform().
	TransformMarshal(atlas.MakeMarshalTransformFunc(
		func(a Address) (string, error) {
			return string(a[:]), nil
		})).
	TransformUnmarshal(atlas.MakeUnmarshalTransformFunc(
		func(x string) (Address, error) {
			return CastAddress([]byte(x))
		})).
	Complete()

func init() {
	cbornode.RegisterCborType(addressAtlasEntry)
}

// ParseAddress parses a 0x-prefixed hex string into an Address.
func ParseAddress(s string) (Address, error) {
	b, err := decodeHexString(s, AddressLength)
	if err != nil {
		return Address{}, err
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// CastAddress interprets bytes as an Address, checking the length.
func CastAddress(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, xerrors.Errorf("cannot cast %d bytes into an Address", len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return err
	}
	copy(a[:], addr[:])
	return nil
}

func decodeHexString(s string, expectedLen int) ([]byte, error) {
	s = handleHexStringPrefix(s)
	if len(s) != expectedLen*2 {
		return nil, xerrors.Errorf("expected hex string length sans prefix %d, got %d", expectedLen*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, xerrors.Errorf("cannot parse hex value: %w", err)
	}
	return b, nil
}

// DecodeHexString decodes a 0x-prefixed hex string of any length.
func DecodeHexString(s string) ([]byte, error) {
	s = handleHexStringPrefix(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, xerrors.Errorf("cannot parse hex value: %w", err)
	}
	return b, nil
}

func handleHexStringPrefix(s string) string {
	// Strip the leading 0x or 0X prefix since hex.DecodeString does not support it.
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	// Sometimes clients will omit a leading zero in a byte; pad so we can decode correctly.
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return s
}
