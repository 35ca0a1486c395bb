package account

import (
	"github.com/filecoin-project/go-state-types/exitcode"

	"github.com/portico-labs/portico/vm"
)

// execTransaction routes an authorized transaction through the account: the
// callee observes the account, not the original caller, as its immediate
// caller. This is the path setFallbackHandler self-calls travel.
func (a *Actor) execTransaction(rt vm.Runtime, args []byte) []byte {
	to, payload, err := decodeCallArgs(args)
	if err != nil {
		rt.Abortf(exitcode.ErrSerialization, "bad execTransaction arguments: %s", err)
	}

	if a.policy == nil {
		rt.Abortf(exitcode.SysErrForbidden, "account has no execution policy")
	}
	if err := a.policy.Authorize(rt.Caller(), to, payload); err != nil {
		rt.Abortf(exitcode.SysErrForbidden, "caller %s not authorized: %s", rt.Caller(), err)
	}

	var st State
	rt.StateTransaction(&st, func() {
		st.Nonce++
	})

	ret, code := rt.Send(to, payload)
	if !code.IsSuccess() {
		rt.Abortf(code, "executed call to %s failed", to)
	}

	log.Debugw("executed transaction", "account", rt.Receiver(), "caller", rt.Caller(), "to", to, "nonce", st.Nonce)
	return ret
}
