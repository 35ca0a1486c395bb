package account

import (
	"bytes"

	"github.com/filecoin-project/go-state-types/exitcode"
	cbg "github.com/whyrusleeping/cbor-gen"

	"github.com/portico-labs/portico/types"
	"github.com/portico-labs/portico/vm"
)

// EventChangedFallbackHandler tags every fallback handler change, removals
// included. A removal carries the zero address as the handler value.
const EventChangedFallbackHandler = "changed-fallback-handler"

func emitChangedFallbackHandler(rt vm.Runtime, handler types.Address) {
	rt.EmitEvent([]types.EventEntry{
		{
			Flags: types.EventFlagIndexedKey | types.EventFlagIndexedValue,
			Key:   "$type",
			Value: eventValue(rt, []byte(EventChangedFallbackHandler)),
		},
		{
			Flags: types.EventFlagIndexedKey | types.EventFlagIndexedValue,
			Key:   "handler",
			Value: eventValue(rt, handler[:]),
		},
	})
}

// eventValue encodes an event entry value as a CBOR byte string.
func eventValue(rt vm.Runtime, data []byte) []byte {
	var buf bytes.Buffer
	if err := cbg.WriteByteArray(&buf, data); err != nil {
		rt.Abortf(exitcode.ErrSerialization, "failed to encode event value: %s", err)
	}
	return buf.Bytes()
}
