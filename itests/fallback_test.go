package itests

import (
	"bytes"
	"testing"

	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/stretchr/testify/require"

	"github.com/portico-labs/portico/actors/account"
	"github.com/portico-labs/portico/actors/tokencb"
	"github.com/portico-labs/portico/itests/kit"
	"github.com/portico-labs/portico/types"
)

func TestInstallAndForwardE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})

	handler := kit.Addr(0x02)
	rec := &kit.Recorder{Return: []byte{0xAC, 0xED}}
	env.AddRecorder(handler, rec)

	env.SetHandler(handler)

	// The canonical forwarding vector: a four-byte payload from a caller of
	// twenty 0xAA bytes.
	caller := kit.Addr(0xAA)
	ret := env.Apply(caller, env.Account, []byte{0x7f, 0x8d, 0xc5, 0x3c})
	require.Equal(t, exitcode.Ok, ret.ExitCode)
	require.Equal(t, types.Bytes{0xAC, 0xED}, ret.Return)

	st := env.Recorded(handler)
	require.Len(t, st.Inputs, 1)

	want := append([]byte{0x7f, 0x8d, 0xc5, 0x3c}, make([]byte, 12)...)
	want = append(want, bytes.Repeat([]byte{0xAA}, 20)...)
	require.Equal(t, want, st.Inputs[0])
	require.Equal(t, env.Account, st.Callers[0], "handler sees the account as immediate caller")
}

func TestUnauthorizedInstallE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})
	handler := kit.Addr(0x02)
	env.AddRecorder(handler, &kit.Recorder{})

	// Not the owner: the policy refuses the execution path.
	ret := env.ExecAs(kit.Addr(0x0B), env.Account, account.EncodeSetFallbackHandler(handler))
	require.Equal(t, exitcode.SysErrForbidden, ret.ExitCode)

	// The owner, but calling setFallbackHandler directly instead of routing
	// it through the account: the self-call gate refuses.
	ret = env.Apply(env.Owner, env.Account, account.EncodeSetFallbackHandler(handler))
	require.Equal(t, exitcode.SysErrForbidden, ret.ExitCode)

	slot, err := env.Machine.SlotOf(env.Account, account.FallbackHandlerSlot)
	require.NoError(t, err)
	require.True(t, slot.IsZero())
}

func TestRejectAllPolicyE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.RejectAllPolicy{})

	ret := env.ExecAs(env.Owner, env.Account, account.EncodeSetFallbackHandler(kit.Addr(0x02)))
	require.Equal(t, exitcode.SysErrForbidden, ret.ExitCode)
}

func TestThresholdPolicyE2E(t *testing.T) {
	signers := []types.Address{kit.Addr(0x0A), kit.Addr(0x0B), kit.Addr(0x0C)}
	policy := &kit.ThresholdPolicy{Signers: signers, Threshold: 2}
	env := kit.NewEnv(t, policy)
	handler := kit.Addr(0x02)
	env.AddRecorder(handler, &kit.Recorder{})

	install := account.EncodeSetFallbackHandler(handler)

	ret := env.ExecAs(signers[0], env.Account, install)
	require.Equal(t, exitcode.SysErrForbidden, ret.ExitCode, "no approvals yet")

	policy.Approve(signers[0])
	policy.Approve(signers[2])
	ret = env.ExecAs(signers[0], env.Account, install)
	require.Equal(t, exitcode.Ok, ret.ExitCode)

	// Approvals are spent.
	ret = env.ExecAs(signers[0], env.Account, install)
	require.Equal(t, exitcode.SysErrForbidden, ret.ExitCode)
}

func TestTokenCallbackHandlerE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})

	handler := kit.Addr(0x02)
	require.NoError(t, env.Machine.CreateActor(handler, &tokencb.Actor{}, nil))
	env.SetHandler(handler)

	// A token contract delivering a safe transfer calls the hook on the
	// account; the account forwards it and relays the acknowledgement.
	token := kit.Addr(0x70)
	hook := append([]byte(nil), tokencb.MethodOnERC721Received[:]...)
	hook = append(hook, make([]byte, 4*types.WordSize)...)

	ret := env.Apply(token, env.Account, hook)
	require.Equal(t, exitcode.Ok, ret.ExitCode)
	require.Equal(t, types.Bytes(types.SelectorWord(tokencb.MethodOnERC721Received)), ret.Return)

	// Without a handler the same hook is a silent no-op, which a strict
	// token contract will treat as a refused transfer.
	bare := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})
	ret = bare.Apply(token, bare.Account, hook)
	require.Equal(t, exitcode.Ok, ret.ExitCode)
	require.Empty(t, ret.Return)
}

func TestReentrantGateE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})

	// A malicious handler that, when triggered by the fallback path, tries
	// to re-enter the account and swap the handler to itself. Its immediate
	// caller credential is its own address, so the gate refuses.
	evil := kit.Addr(0x66)
	require.NoError(t, env.Machine.CreateActor(evil, &kit.Reenterer{
		Target:  env.Account,
		Payload: account.EncodeSetFallbackHandler(evil),
	}, nil))
	env.SetHandler(evil)

	ret := env.Apply(kit.Addr(0x0B), env.Account, []byte{0xde, 0xad, 0xbe, 0xef})
	require.Equal(t, exitcode.SysErrForbidden, ret.ExitCode)

	slot, err := env.Machine.SlotOf(env.Account, account.FallbackHandlerSlot)
	require.NoError(t, err)
	require.Equal(t, types.WordFromAddress(evil), slot, "original installation stands, mutation refused")
}

func TestReentrantReadE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})

	// Re-entering through a recognized read-only entry point is fine.
	reader := kit.Addr(0x77)
	require.NoError(t, env.Machine.CreateActor(reader, &kit.Reenterer{
		Target:  env.Account,
		Payload: account.EncodeGetFallbackHandler(),
	}, nil))
	env.SetHandler(reader)

	ret := env.Apply(kit.Addr(0x0B), env.Account, []byte{0xde, 0xad, 0xbe, 0xef})
	require.Equal(t, exitcode.Ok, ret.ExitCode)
	want := types.WordFromAddress(reader)
	require.Equal(t, types.Bytes(want[:]), ret.Return)
}

func TestForwardingLoopHitsDepthLimitE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})

	// The handler bounces every call straight back at the account with an
	// unrecognized payload, so the account forwards it again, forever. The
	// depth ceiling breaks the loop.
	bouncer := kit.Addr(0x88)
	require.NoError(t, env.Machine.CreateActor(bouncer, &kit.Reenterer{
		Target:  env.Account,
		Payload: []byte{0xde, 0xad, 0xbe, 0xef},
	}, nil))
	env.SetHandler(bouncer)

	ret := env.Apply(kit.Addr(0x0B), env.Account, []byte{0xde, 0xad, 0xbe, 0xef})
	require.Equal(t, exitcode.SysErrForbidden, ret.ExitCode)
}

func TestHandlerSwapE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})

	first := kit.Addr(0x02)
	second := kit.Addr(0x03)
	env.AddRecorder(first, &kit.Recorder{})
	env.AddRecorder(second, &kit.Recorder{})

	env.SetHandler(first)
	env.SetHandler(second)

	probe := []byte{0x01, 0x02, 0x03, 0x04}
	ret := env.Apply(kit.Addr(0x0B), env.Account, probe)
	require.Equal(t, exitcode.Ok, ret.ExitCode)

	require.Empty(t, env.Recorded(first).Inputs)
	require.Len(t, env.Recorded(second).Inputs, 1)

	// Removal: back to silent no-ops.
	env.SetHandler(types.ZeroAddress)
	ret = env.Apply(kit.Addr(0x0B), env.Account, probe)
	require.Equal(t, exitcode.Ok, ret.ExitCode)
	require.Len(t, env.Recorded(second).Inputs, 1)
}

func TestChangedHandlerEventsE2E(t *testing.T) {
	env := kit.NewEnv(t, kit.SoloPolicy{Owner: kit.Addr(0x0A)})
	handler := kit.Addr(0x02)
	env.AddRecorder(handler, &kit.Recorder{})

	ret := env.ExecAs(env.Owner, env.Account, account.EncodeSetFallbackHandler(handler))
	require.Equal(t, exitcode.Ok, ret.ExitCode)
	require.Len(t, ret.Events, 1)
	require.Equal(t, env.Account, ret.Events[0].Emitter)
	require.Equal(t, "$type", ret.Events[0].Entries[0].Key)
	require.Equal(t, "handler", ret.Events[0].Entries[1].Key)
}
