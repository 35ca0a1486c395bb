// Package account implements the multisig-controlled smart account actor.
//
// The account recognizes a small set of entry points, routed on the leading
// 4-byte selector of the call input. Everything else takes the fallback path:
// if a fallback handler is installed, the call is re-issued to it with the
// original caller's address appended to the payload; if none is installed,
// the call is a silent no-op.
package account

import (
	cbornode "github.com/ipfs/go-ipld-cbor"
	logging "github.com/ipfs/go-log/v2"

	"github.com/portico-labs/portico/types"
	"github.com/portico-labs/portico/vm"
)

var log = logging.Logger("account")

var (
	MethodSetFallbackHandler = types.SelectorOf("setFallbackHandler(address)")
	MethodGetFallbackHandler = types.SelectorOf("getFallbackHandler()")
	MethodExecTransaction    = types.SelectorOf("execTransaction(address,bytes)")
)

// ExecPolicy is the governance collaborator deciding whether a caller may
// route a transaction through the account. The signature/quorum pipeline
// behind it is outside this package; the account only requires a yes/no.
type ExecPolicy interface {
	// Authorize returns nil if caller may have the account execute payload
	// against to.
	Authorize(caller types.Address, to types.Address, payload []byte) error
}

type Actor struct {
	policy ExecPolicy
}

// State is the account's declared state head. The fallback handler is
// deliberately NOT part of it: it lives in a raw storage slot at a fixed,
// hash-derived location so it cannot alias these fields as they evolve.
type State struct {
	Nonce uint64
}

func init() {
	cbornode.RegisterCborType(State{})
}

// New creates the account actor. A nil policy rejects all execTransaction
// calls; the fallback path and reads work regardless.
func New(policy ExecPolicy) *Actor {
	return &Actor{policy: policy}
}

var _ vm.Invokee = (*Actor)(nil)

func (a *Actor) Invoke(rt vm.Runtime, input []byte) []byte {
	sel, ok := types.SelectorFromInput(input)
	if !ok {
		// Too short to carry a selector; unrecognized by definition.
		return a.handleUnrecognized(rt, input)
	}

	switch sel {
	case MethodSetFallbackHandler:
		return a.setFallbackHandler(rt, input[types.SelectorLength:])
	case MethodGetFallbackHandler:
		return a.getFallbackHandler(rt)
	case MethodExecTransaction:
		return a.execTransaction(rt, input[types.SelectorLength:])
	default:
		return a.handleUnrecognized(rt, input)
	}
}
