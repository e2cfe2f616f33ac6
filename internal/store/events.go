package store

// EventEmitter receives change notifications after successful writes.
// Services use it to tell connected UI shells that something changed without
// depending on how the notification is delivered.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}
