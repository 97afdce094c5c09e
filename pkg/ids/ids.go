package ids

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Len is the canonical length of an entity identifier.
const Len = 26

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// New returns a fresh entity identifier: a 26-character Crockford-base32
// ULID, lexicographically sortable by creation time.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String())
}

// IsValid reports whether value parses as a 26-character ULID token.
func IsValid(value string) bool {
	if len(value) != Len {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(value))
	return err == nil
}

// Time extracts the embedded creation timestamp, or the zero time when the
// value is not a valid token.
func Time(value string) time.Time {
	parsed, err := ulid.ParseStrict(strings.ToUpper(value))
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(parsed.Time())
}
