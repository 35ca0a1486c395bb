package vm

import (
	"context"
	"fmt"

	"github.com/filecoin-project/go-state-types/exitcode"
	cbornode "github.com/ipfs/go-ipld-cbor"

	"github.com/portico-labs/portico/actors/aerrors"
	"github.com/portico-labs/portico/types"
)

// Runtime is the interface the machine hands to actor code for the duration
// of one call frame.
type Runtime interface {
	Context() context.Context

	// Caller is the authenticated immediate caller of this frame. It is
	// assigned by the machine and can never be influenced by payload bytes.
	Caller() types.Address
	// Receiver is the address the current frame executes as.
	Receiver() types.Address

	// ValidateImmediateCallerIs aborts with SysErrForbidden unless the
	// immediate caller is one of the given addresses.
	ValidateImmediateCallerIs(as ...types.Address)

	// SlotGet reads one raw 32-byte storage slot of the receiver. Unwritten
	// slots read as the zero word.
	SlotGet(slot types.Hash) types.Hash
	// SlotPut writes one raw 32-byte storage slot of the receiver.
	SlotPut(slot types.Hash, val types.Hash)

	// StateReadonly decodes the receiver's state head into obj.
	StateReadonly(obj interface{})
	// StateTransaction decodes the receiver's state head into obj, runs f,
	// and commits the mutated obj as the new head.
	StateTransaction(obj interface{}, f func())

	// Send issues a plain, non-context-sharing call to another actor. The
	// callee observes the current receiver as its immediate caller. Failures
	// are reported through the exit code; the frame's writes are already
	// rolled back when a non-zero code is returned.
	Send(to types.Address, input []byte) ([]byte, exitcode.ExitCode)

	// EmitEvent records an event against the current receiver. Events are
	// discarded if the emitting frame fails.
	EmitEvent(entries []types.EventEntry)

	// Abortf aborts the current call with the given exit code.
	Abortf(code exitcode.ExitCode, msg string, args ...interface{})
}

type runtimeContext struct {
	m      *Machine
	from   types.Address
	to     types.Address
	handle *actorHandle
}

var _ Runtime = (*runtimeContext)(nil)

func (rt *runtimeContext) Context() context.Context {
	return rt.m.ctx
}

func (rt *runtimeContext) Caller() types.Address {
	return rt.from
}

func (rt *runtimeContext) Receiver() types.Address {
	return rt.to
}

func (rt *runtimeContext) ValidateImmediateCallerIs(as ...types.Address) {
	for _, a := range as {
		if rt.from == a {
			return
		}
	}
	rt.Abortf(exitcode.SysErrForbidden, "caller %s is not one of %s", rt.from, as)
}

func (rt *runtimeContext) SlotGet(slot types.Hash) types.Hash {
	return rt.handle.slots[slot]
}

func (rt *runtimeContext) SlotPut(slot types.Hash, val types.Hash) {
	rt.handle.slots[slot] = val
}

func (rt *runtimeContext) StateReadonly(obj interface{}) {
	if rt.handle.head == nil {
		rt.Abortf(exitcode.ErrIllegalState, "actor %s has no state", rt.to)
	}
	if err := cbornode.DecodeInto(rt.handle.head, obj); err != nil {
		rt.Abortf(exitcode.ErrSerialization, "failed to decode state of %s: %s", rt.to, err)
	}
}

func (rt *runtimeContext) StateTransaction(obj interface{}, f func()) {
	rt.StateReadonly(obj)

	f()

	head, err := cbornode.DumpObject(obj)
	if err != nil {
		rt.Abortf(exitcode.ErrSerialization, "failed to encode state of %s: %s", rt.to, err)
	}
	rt.handle.head = head
}

func (rt *runtimeContext) Send(to types.Address, input []byte) ([]byte, exitcode.ExitCode) {
	ret, aerr := rt.m.send(rt.to, to, input)
	if aerr != nil {
		if aerr.IsFatal() {
			panic(aerr)
		}
		log.Warnf("send failed: from: %s, to: %s: err: %s", rt.to, to, aerr)
		return nil, aerr.RetCode()
	}
	return ret, exitcode.Ok
}

func (rt *runtimeContext) EmitEvent(entries []types.EventEntry) {
	rt.m.events = append(rt.m.events, types.Event{
		Emitter: rt.to,
		Entries: entries,
	})
}

func (rt *runtimeContext) Abortf(code exitcode.ExitCode, msg string, args ...interface{}) {
	log.Warnf("Abortf: " + fmt.Sprintf(msg, args...))
	panic(aerrors.Newf(code, msg, args...))
}

// shimCall runs actor code, converting Abortf panics back into ActorErrors.
func (rt *runtimeContext) shimCall(f func() []byte) (ret []byte, aerr aerrors.ActorError) {
	defer func() {
		if r := recover(); r != nil {
			if ar, ok := r.(aerrors.ActorError); ok {
				aerr = ar
				return
			}
			log.Errorf("actor failure in call from %s to %s: %s", rt.from, rt.to, r)
			aerr = aerrors.Newf(exitcode.SysErrorIllegalActor, "actor failure: %s", r)
		}
	}()

	return f(), nil
}
