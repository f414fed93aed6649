package economy

import "github.com/google/uuid"

// IDGenerator produces audit entry ids.
// Implemented by UUIDGenerator (production) and a fixed generator in
// tests, keeping audit trails deterministic under test.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces UUIDv7 ids. UUIDv7 is time-ordered, so audit
// entries sort chronologically by id.
type UUIDGenerator struct{}

// NewID returns a new UUIDv7 string.
func (UUIDGenerator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
