package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/guttosm/packing-slip-service/internal/service/cache"
)

type claimResult int

const (
	// claimAcquired means the caller owns the scope until it calls finish.
	claimAcquired claimResult = iota
	// claimReplay means a stored response exists for the scope and body.
	claimReplay
	// claimInFlight means another request in the scope has not finished yet.
	claimInFlight
	// claimReused means the scope already holds a response for another body.
	claimReused
)

// storedResponse is a completed 2xx response kept for replay.
type storedResponse struct {
	status      int
	header      http.Header
	body        []byte
	fingerprint string
}

// idempotencyStore keeps replayable responses in a bounded LRU and tracks
// scopes whose first request is still running.
type idempotencyStore struct {
	mu        sync.Mutex
	responses *cache.LRU[*storedResponse]
	inFlight  map[string]struct{}
}

func newIdempotencyStore(ttl time.Duration, maxEntries int, opts ...cache.Option) *idempotencyStore {
	return &idempotencyStore{
		responses: cache.NewLRU[*storedResponse](maxEntries, ttl, opts...),
		inFlight:  make(map[string]struct{}),
	}
}

// begin decides how a request in scope carrying a body with the given
// fingerprint is served. On claimAcquired the scope is marked in flight.
func (s *idempotencyStore) begin(scope, fingerprint string) (*storedResponse, claimResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if resp, ok := s.responses.Get(scope); ok {
		if resp.fingerprint != fingerprint {
			return nil, claimReused
		}
		return resp, claimReplay
	}
	if _, busy := s.inFlight[scope]; busy {
		return nil, claimInFlight
	}
	s.inFlight[scope] = struct{}{}
	return nil, claimAcquired
}

// finish releases scope and keeps resp for replay when it is not nil.
func (s *idempotencyStore) finish(scope string, resp *storedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, scope)
	if resp != nil {
		s.responses.Set(scope, resp)
	}
}

func (s *idempotencyStore) inFlightCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inFlight)
}
