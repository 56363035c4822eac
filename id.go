package fuzzyjson

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// attemptIDSource produces correlation IDs for individual Parse/ParseAs
// calls, attached as attempt_id to the context of the errors those calls
// return. The entropy source is a *rand.Rand, which isn't safe to share
// across goroutines, so access is serialized here.
type attemptIDSource struct {
	mu      sync.Mutex
	entropy *rand.Rand
}

func newAttemptIDSource() *attemptIDSource {
	return &attemptIDSource{
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (a *attemptIDSource) Next() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), a.entropy).String()
}
