package types

const (
	// EventFlagIndexedKey marks an entry whose key should be indexed by
	// observers.
	EventFlagIndexedKey = 0x01
	// EventFlagIndexedValue marks an entry whose value should be indexed by
	// observers.
	EventFlagIndexedValue = 0x02
)

type EventEntry struct {
	// A bitmap conveying metadata or hints about this entry.
	Flags uint8

	// The key of this event entry.
	Key string

	// The value, as a CBOR-encoded block.
	Value []byte
}

type Event struct {
	// The address of the actor that emitted this event.
	Emitter Address

	// Key values making up this event.
	Entries []EventEntry
}
