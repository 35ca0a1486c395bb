// Package vm implements the in-memory execution environment hosting native
// Go actors: a single-threaded machine that applies one message at a time,
// with transactional per-call semantics and nested sends.
package vm

import (
	"context"
	"maps"

	"github.com/filecoin-project/go-state-types/exitcode"
	cbornode "github.com/ipfs/go-ipld-cbor"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/portico-labs/portico/actors/aerrors"
	"github.com/portico-labs/portico/types"
)

var log = logging.Logger("vm")

// MaxCallDepth bounds nested sends. The machine has no gas model; this is
// the only resource ceiling, and hitting it surfaces as an ordinary failure
// outcome of the innermost call.
const MaxCallDepth = 1024

// Invokee is native actor code. Invoke returns the call's raw return bytes;
// failures are raised through Runtime.Abortf.
type Invokee interface {
	Invoke(rt Runtime, input []byte) []byte
}

type actorHandle struct {
	code Invokee

	// CBOR-encoded state head. Replaced wholesale by StateTransaction,
	// never mutated in place, so snapshots may share the slice.
	head []byte

	// Raw 32-byte storage slots, a keyspace disjoint from the state head.
	slots map[types.Hash]types.Hash
}

// Machine hosts actors and applies messages strictly sequentially. It is not
// safe for concurrent use.
type Machine struct {
	ctx    context.Context
	actors map[types.Address]*actorHandle
	events []types.Event
	depth  int
}

func NewMachine(ctx context.Context) *Machine {
	return &Machine{
		ctx:    ctx,
		actors: make(map[types.Address]*actorHandle),
	}
}

// CreateActor installs native code at an address, with an optional initial
// state object (CBOR-encoded as the actor's state head).
func (m *Machine) CreateActor(addr types.Address, code Invokee, state interface{}) error {
	if addr.IsZero() {
		return xerrors.Errorf("cannot create an actor at the zero address")
	}
	if code == nil {
		return xerrors.Errorf("cannot create an actor with no code at %s", addr)
	}
	if _, exists := m.actors[addr]; exists {
		return xerrors.Errorf("actor already exists at %s", addr)
	}

	var head []byte
	if state != nil {
		var err error
		head, err = cbornode.DumpObject(state)
		if err != nil {
			return xerrors.Errorf("failed to serialize initial state for %s: %w", addr, err)
		}
	}

	m.actors[addr] = &actorHandle{
		code:  code,
		head:  head,
		slots: make(map[types.Hash]types.Hash),
	}
	return nil
}

func (m *Machine) ActorExists(addr types.Address) bool {
	_, ok := m.actors[addr]
	return ok
}

// StateOf decodes an actor's current state head into obj, for inspection.
func (m *Machine) StateOf(addr types.Address, obj interface{}) error {
	handle, ok := m.actors[addr]
	if !ok {
		return xerrors.Errorf("no actor at %s", addr)
	}
	if handle.head == nil {
		return xerrors.Errorf("actor at %s has no state", addr)
	}
	return cbornode.DecodeInto(handle.head, obj)
}

// SlotOf reads one raw storage slot of an actor, for inspection.
func (m *Machine) SlotOf(addr types.Address, slot types.Hash) (types.Hash, error) {
	handle, ok := m.actors[addr]
	if !ok {
		return types.Hash{}, xerrors.Errorf("no actor at %s", addr)
	}
	return handle.slots[slot], nil
}

// Apply executes one inbound message to completion and returns its receipt.
// A non-nil error means the machine itself failed (a fatal actor error), not
// that the call failed; failed calls are reported through the exit code.
func (m *Machine) Apply(msg *types.Message) (*types.Receipt, error) {
	if m.depth != 0 {
		return nil, xerrors.Errorf("Apply called while a message is executing")
	}
	m.events = m.events[:0]

	ret, aerr := m.send(msg.From, msg.To, msg.Input)
	if aerr != nil {
		if aerr.IsFatal() {
			return nil, xerrors.Errorf("fatal error applying message to %s: %w", msg.To, aerr)
		}
		log.Debugw("message failed", "to", msg.To, "code", aerr.RetCode(), "error", aerr)
		return &types.Receipt{ExitCode: aerr.RetCode()}, nil
	}

	events := make([]types.Event, len(m.events))
	copy(events, m.events)
	return &types.Receipt{ExitCode: exitcode.Ok, Return: ret, Events: events}, nil
}

// send runs one call frame. State writes and events of the frame (and its
// committed subframes) are rolled back if the frame fails.
func (m *Machine) send(from, to types.Address, input []byte) ([]byte, aerrors.ActorError) {
	if m.depth >= MaxCallDepth {
		return nil, aerrors.Newf(exitcode.SysErrForbidden, "max call depth %d exceeded", MaxCallDepth)
	}

	handle, ok := m.actors[to]
	if !ok {
		return nil, aerrors.Newf(exitcode.SysErrInvalidReceiver, "no actor code at %s", to)
	}

	snap := m.snapshot()
	evlen := len(m.events)

	m.depth++
	rt := &runtimeContext{m: m, from: from, to: to, handle: handle}
	ret, aerr := rt.shimCall(func() []byte {
		return handle.code.Invoke(rt, input)
	})
	m.depth--

	if aerr != nil {
		m.restore(snap)
		m.events = m.events[:evlen]
		return nil, aerr
	}
	return ret, nil
}

type actorSnapshot struct {
	head  []byte
	slots map[types.Hash]types.Hash
}

func (m *Machine) snapshot() map[types.Address]actorSnapshot {
	snap := make(map[types.Address]actorSnapshot, len(m.actors))
	for addr, handle := range m.actors {
		snap[addr] = actorSnapshot{
			head:  handle.head,
			slots: maps.Clone(handle.slots),
		}
	}
	return snap
}

func (m *Machine) restore(snap map[types.Address]actorSnapshot) {
	for addr, s := range snap {
		handle := m.actors[addr]
		handle.head = s.head
		handle.slots = s.slots
	}
}
