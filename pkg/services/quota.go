package services

import (
	"strings"
	"sync"
	"time"
)

// PlanStarter is the only subscription tier with a submission limit.
const PlanStarter = "starter"

const starterSubmissionLimit = 1

// PlanLimited reports whether a subscription plan is quota-gated. Any other
// value, including an absent plan, is unrestricted.
func PlanLimited(plan string) bool {
	return strings.EqualFold(strings.TrimSpace(plan), PlanStarter)
}

// QuotaKey normalizes a submitter identity for quota lookups.
func QuotaKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Tracker enforces the per-identity submission limit for quota-gated plans.
//
// The API is reserve/commit/release rather than check/increment so that two
// concurrent submissions from the same identity cannot both pass the check:
// Reserve atomically counts the in-flight attempt against the limit, Commit
// makes it permanent once the operator notification was actually delivered,
// and Release returns the slot when delivery fails. A failed attempt must
// never consume the single starter-plan slot.
type Tracker interface {
	Reserve(email, plan string) (bool, error)
	Commit(email, plan string) error
	Release(email, plan string) error
}

type quotaRecord struct {
	count          int
	reserved       int
	lastSubmission time.Time
}

// MemoryTracker is the default process-lifetime Tracker. Counters reset on
// restart, which matches the observed product behavior; a durable store can
// be swapped in where that is not acceptable.
type MemoryTracker struct {
	mu      sync.Mutex
	records map[string]*quotaRecord
	now     func() time.Time
}

// NewMemoryTracker creates an empty in-memory quota tracker
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{
		records: make(map[string]*quotaRecord),
		now:     time.Now,
	}
}

func (t *MemoryTracker) Reserve(email, plan string) (bool, error) {
	if !PlanLimited(plan) {
		return true, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.record(email)
	if rec.count+rec.reserved >= starterSubmissionLimit {
		return false, nil
	}
	rec.reserved++
	return true, nil
}

func (t *MemoryTracker) Commit(email, plan string) error {
	if !PlanLimited(plan) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.record(email)
	if rec.reserved > 0 {
		rec.reserved--
	}
	rec.count++
	rec.lastSubmission = t.now()
	return nil
}

func (t *MemoryTracker) Release(email, plan string) error {
	if !PlanLimited(plan) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec := t.record(email)
	if rec.reserved > 0 {
		rec.reserved--
	}
	return nil
}

// record returns the entry for an identity, creating it on first use.
// Callers must hold the mutex.
func (t *MemoryTracker) record(email string) *quotaRecord {
	key := QuotaKey(email)
	rec, ok := t.records[key]
	if !ok {
		rec = &quotaRecord{}
		t.records[key] = rec
	}
	return rec
}
