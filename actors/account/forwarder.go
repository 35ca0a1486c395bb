package account

import (
	"github.com/portico-labs/portico/types"
	"github.com/portico-labs/portico/vm"
)

// handleUnrecognized is the fallback path for any input that matches no
// recognized selector, including empty input.
//
// With no handler installed the call succeeds with empty output. That is a
// deliberate policy, not an error: other contracts probe accounts with
// capability-detection calls and depend on them not reverting.
func (a *Actor) handleUnrecognized(rt vm.Runtime, input []byte) []byte {
	handler := readHandler(rt)
	if handler.IsZero() {
		return nil
	}

	// Append the original caller's address to the payload tail. The handler
	// observes this account as its immediate caller (the call below shares
	// no context), so the suffix is its only way to learn the originator.
	forwarded := types.AppendCallerWord(input, rt.Caller())

	ret, code := rt.Send(handler, forwarded)
	if !code.IsSuccess() {
		// Relay the handler's failure verbatim; a handler address with no
		// code behind it fails here too.
		rt.Abortf(code, "fallback handler %s failed", handler)
	}
	return ret
}
