package types

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/filecoin-project/go-state-types/exitcode"
)

// Bytes represent arbitrary bytes. A nil or empty slice serializes to "0x".
type Bytes []byte

func (e Bytes) String() string {
	if len(e) == 0 {
		return "0x"
	}
	return "0x" + hex.EncodeToString(e)
}

func (e Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Bytes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	decoded, err := DecodeHexString(s)
	if err != nil {
		return err
	}
	*e = decoded
	return nil
}

// Message is one inbound call into the machine.
type Message struct {
	From  Address
	To    Address
	Input Bytes
}

// Receipt is the outcome of applying a Message: the exit code, the raw
// return bytes, and the events emitted by the call's committed subtree.
type Receipt struct {
	ExitCode exitcode.ExitCode
	Return   Bytes
	Events   []Event
}

func (r *Receipt) Equals(o *Receipt) bool {
	return r.ExitCode == o.ExitCode && bytes.Equal(r.Return, o.Return)
}
