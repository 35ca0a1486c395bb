package account

import (
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/portico-labs/portico/types"
	"github.com/portico-labs/portico/vm"
)

// FallbackHandlerSlotKey is the documented namespace string the handler slot
// is derived from. The derived location is a bit-exact external contract: any
// compliant implementation must compute the identical slot.
const FallbackHandlerSlotKey = "fallback_manager.handler.address"

// FallbackHandlerSlot is keccak256(FallbackHandlerSlotKey):
// 0x6c9a6c4a39284e37ed1cf53d337577d14212a4870fb976a4366c693b939918d5.
// A hash-derived location cannot alias the account's declared state fields.
var FallbackHandlerSlot = types.Keccak256([]byte(FallbackHandlerSlotKey))

// readHandler returns the installed fallback handler, or the zero address if
// none is installed. Never fails.
func readHandler(rt vm.Runtime) types.Address {
	return types.AddressFromWord(rt.SlotGet(FallbackHandlerSlot))
}

func (a *Actor) getFallbackHandler(rt vm.Runtime) []byte {
	word := rt.SlotGet(FallbackHandlerSlot)
	return word[:]
}

// setFallbackHandler installs (or, with the zero address, removes) the
// fallback handler. Reachable only as a self-call: the account must route
// the mutation through its own authorized execution path.
func (a *Actor) setFallbackHandler(rt vm.Runtime, args []byte) []byte {
	rt.ValidateImmediateCallerIs(rt.Receiver())

	if len(args) != types.WordSize {
		rt.Abortf(exitcode.ErrSerialization, "setFallbackHandler wants one address word, got %d bytes", len(args))
	}
	var word types.Hash
	copy(word[:], args)
	handler := types.AddressFromWord(word)

	if handler == rt.Receiver() {
		rt.Abortf(exitcode.ErrIllegalArgument, "fallback handler cannot be the account itself")
	}

	rt.SlotPut(FallbackHandlerSlot, types.WordFromAddress(handler))
	emitChangedFallbackHandler(rt, handler)

	log.Debugw("fallback handler changed", "account", rt.Receiver(), "handler", handler)
	return nil
}
