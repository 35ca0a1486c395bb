// Package kit provides shared fixtures for the integration tests: a machine
// pre-loaded with an account actor, reusable execution policies, and helper
// actors for observing and re-entering calls.
package kit

import (
	"context"
	"testing"

	"github.com/filecoin-project/go-state-types/exitcode"
	cbornode "github.com/ipfs/go-ipld-cbor"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/portico-labs/portico/actors/account"
	"github.com/portico-labs/portico/types"
	"github.com/portico-labs/portico/vm"
)

// Addr builds a recognizable address from one repeated byte.
func Addr(b byte) types.Address {
	var a types.Address
	for i := range a {
		a[i] = b
	}
	return a
}

// Env is one test environment: a machine hosting a single account actor
// governed by the given policy.
type Env struct {
	T       *testing.T
	Machine *vm.Machine

	Account types.Address
	Owner   types.Address
}

func NewEnv(t *testing.T, policy account.ExecPolicy) *Env {
	env := &Env{
		T:       t,
		Machine: vm.NewMachine(context.Background()),
		Account: Addr(0x51),
		Owner:   Addr(0x0A),
	}
	require.NoError(t, env.Machine.CreateActor(env.Account, account.New(policy), &account.State{}))
	return env
}

// Apply sends one message and requires the machine itself to stay healthy.
func (e *Env) Apply(from, to types.Address, input []byte) *types.Receipt {
	ret, err := e.Machine.Apply(&types.Message{From: from, To: to, Input: input})
	require.NoError(e.T, err)
	return ret
}

// ExecAs routes a payload through the account's authorized execution path.
func (e *Env) ExecAs(caller, to types.Address, payload []byte) *types.Receipt {
	return e.Apply(caller, e.Account, account.EncodeExecTransaction(to, payload))
}

// SetHandler installs a fallback handler through the owner's execution path
// and requires success.
func (e *Env) SetHandler(handler types.Address) {
	ret := e.ExecAs(e.Owner, e.Account, account.EncodeSetFallbackHandler(handler))
	require.Equal(e.T, exitcode.Ok, ret.ExitCode)
}

// SoloPolicy authorizes a single owner, the smallest useful governance rule.
type SoloPolicy struct {
	Owner types.Address
}

func (p SoloPolicy) Authorize(caller, to types.Address, payload []byte) error {
	if caller != p.Owner {
		return xerrors.Errorf("caller %s is not the owner %s", caller, p.Owner)
	}
	return nil
}

// RejectAllPolicy refuses everyone.
type RejectAllPolicy struct{}

func (RejectAllPolicy) Authorize(caller, to types.Address, payload []byte) error {
	return xerrors.Errorf("rejected")
}

// ThresholdPolicy authorizes signers once enough of them have approved. It is
// a deliberately naive stand-in for a real quorum pipeline: approvals are
// collected out of band and cleared after each authorized call.
type ThresholdPolicy struct {
	Signers   []types.Address
	Threshold int

	approved map[types.Address]bool
}

func (p *ThresholdPolicy) Approve(signer types.Address) {
	if p.approved == nil {
		p.approved = make(map[types.Address]bool)
	}
	p.approved[signer] = true
}

func (p *ThresholdPolicy) Authorize(caller, to types.Address, payload []byte) error {
	if !p.isSigner(caller) {
		return xerrors.Errorf("caller %s is not a signer", caller)
	}
	votes := 0
	for _, s := range p.Signers {
		if p.approved[s] {
			votes++
		}
	}
	if votes < p.Threshold {
		return xerrors.Errorf("%d of %d required approvals", votes, p.Threshold)
	}
	p.approved = nil
	return nil
}

func (p *ThresholdPolicy) isSigner(a types.Address) bool {
	for _, s := range p.Signers {
		if s == a {
			return true
		}
	}
	return false
}

// RecorderState is the persisted call log of a Recorder actor.
type RecorderState struct {
	Inputs  [][]byte
	Callers []types.Address
}

func init() {
	cbornode.RegisterCborType(RecorderState{})
}

// Recorder is a handler actor that persists every input and caller it sees
// into its state, then returns canned bytes (or aborts, if told to).
type Recorder struct {
	Return    []byte
	AbortCode exitcode.ExitCode
}

var _ vm.Invokee = (*Recorder)(nil)

func (r *Recorder) Invoke(rt vm.Runtime, input []byte) []byte {
	var st RecorderState
	rt.StateTransaction(&st, func() {
		st.Inputs = append(st.Inputs, append([]byte(nil), input...))
		st.Callers = append(st.Callers, rt.Caller())
	})
	if r.AbortCode != exitcode.Ok {
		rt.Abortf(r.AbortCode, "recorder told to fail")
	}
	return r.Return
}

// AddRecorder installs a Recorder at the given address.
func (e *Env) AddRecorder(addr types.Address, rec *Recorder) {
	require.NoError(e.T, e.Machine.CreateActor(addr, rec, &RecorderState{}))
}

// Recorded returns the recorder's persisted call log.
func (e *Env) Recorded(addr types.Address) RecorderState {
	var st RecorderState
	require.NoError(e.T, e.Machine.StateOf(addr, &st))
	return st
}

// Reenterer is a handler actor that, whenever invoked, issues a fresh call to
// Target with Payload and relays the outcome.
type Reenterer struct {
	Target  types.Address
	Payload []byte
}

var _ vm.Invokee = (*Reenterer)(nil)

func (r *Reenterer) Invoke(rt vm.Runtime, input []byte) []byte {
	ret, code := rt.Send(r.Target, r.Payload)
	if !code.IsSuccess() {
		rt.Abortf(code, "re-entrant call to %s failed", r.Target)
	}
	return ret
}
