package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("0xd4c5fb16488Aa48081296299d54b0c648C9333dA")
	require.NoError(t, err)
	require.Equal(t, "0xd4c5fb16488aa48081296299d54b0c648c9333da", addr.String())
	require.False(t, addr.IsZero())

	// Prefix is optional, case is ignored.
	same, err := ParseAddress("D4C5FB16488AA48081296299D54B0C648C9333DA")
	require.NoError(t, err)
	require.Equal(t, addr, same)

	_, err = ParseAddress("0xd4c5fb16488aa48081296299d54b0c648c9333")
	require.Error(t, err)
	_, err = ParseAddress("0xzzc5fb16488aa48081296299d54b0c648c9333da")
	require.Error(t, err)
}

func TestCastAddress(t *testing.T) {
	b := make([]byte, AddressLength)
	b[0] = 0x01
	addr, err := CastAddress(b)
	require.NoError(t, err)
	require.Equal(t, byte(0x01), addr[0])

	_, err = CastAddress(b[:19])
	require.Error(t, err)
	_, err = CastAddress(append(b, 0x00))
	require.Error(t, err)
}

func TestAddressJSONRoundtrip(t *testing.T) {
	addr, err := ParseAddress("0x5cbeecf99d3fdb3f25e309cc264f240bb0664031")
	require.NoError(t, err)

	enc, err := json.Marshal(addr)
	require.NoError(t, err)
	require.Equal(t, `"0x5cbeecf99d3fdb3f25e309cc264f240bb0664031"`, string(enc))

	var back Address
	require.NoError(t, json.Unmarshal(enc, &back))
	require.Equal(t, addr, back)
}

func TestKeccak256(t *testing.T) {
	require.Equal(t,
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		Keccak256(nil).String())

	require.Equal(t,
		"0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45",
		Keccak256([]byte("abc")).String())

	// Concatenation of the chunks, not a digest per chunk.
	require.Equal(t,
		Keccak256([]byte("abc")),
		Keccak256([]byte("a"), []byte("bc")))
}

func TestParseHash(t *testing.T) {
	h, err := ParseHash("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45")
	require.NoError(t, err)
	require.Equal(t, Keccak256([]byte("abc")), h)

	_, err = ParseHash("0x4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c")
	require.Error(t, err)
}

func TestSelectorOf(t *testing.T) {
	// Pinned selectors of widely deployed signatures.
	require.Equal(t, "0xf08a0323", SelectorOf("setFallbackHandler(address)").String())
	require.Equal(t, "0x150b7a02", SelectorOf("onERC721Received(address,address,uint256,bytes)").String())
	require.Equal(t, "0xf23a6e61", SelectorOf("onERC1155Received(address,address,uint256,uint256,bytes)").String())
	require.Equal(t, "0xbc197c81", SelectorOf("onERC1155BatchReceived(address,address,uint256[],uint256[],bytes)").String())
}

func TestSelectorFromInput(t *testing.T) {
	sel, ok := SelectorFromInput([]byte{0x7f, 0x8d, 0xc5, 0x3c, 0xff})
	require.True(t, ok)
	require.Equal(t, MethodSelector{0x7f, 0x8d, 0xc5, 0x3c}, sel)

	_, ok = SelectorFromInput([]byte{0x7f, 0x8d, 0xc5})
	require.False(t, ok)
	_, ok = SelectorFromInput(nil)
	require.False(t, ok)
}

func TestBytesJSON(t *testing.T) {
	require.Equal(t, "0x", Bytes(nil).String())
	require.Equal(t, "0x01ff", Bytes{0x01, 0xff}.String())

	var b Bytes
	require.NoError(t, json.Unmarshal([]byte(`"0x01ff"`), &b))
	require.Equal(t, Bytes{0x01, 0xff}, b)
}
