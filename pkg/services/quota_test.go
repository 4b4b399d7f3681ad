package services

import (
	"sync"
	"testing"
)

func TestMemoryTrackerStarterSingleSubmission(t *testing.T) {
	tracker := NewMemoryTracker()

	allowed, err := tracker.Reserve("jane@acme.com", "starter")
	if err != nil || !allowed {
		t.Fatalf("first reserve: allowed=%v err=%v", allowed, err)
	}
	if err := tracker.Commit("jane@acme.com", "starter"); err != nil {
		t.Fatalf("commit: %v", err)
	}

	allowed, err = tracker.Reserve("jane@acme.com", "starter")
	if err != nil {
		t.Fatalf("second reserve: %v", err)
	}
	if allowed {
		t.Error("second starter reservation should be denied")
	}
}

func TestMemoryTrackerReleaseRestoresSlot(t *testing.T) {
	tracker := NewMemoryTracker()

	allowed, _ := tracker.Reserve("jane@acme.com", "starter")
	if !allowed {
		t.Fatal("first reserve should be allowed")
	}
	if err := tracker.Release("jane@acme.com", "starter"); err != nil {
		t.Fatalf("release: %v", err)
	}

	allowed, _ = tracker.Reserve("jane@acme.com", "starter")
	if !allowed {
		t.Error("reserve after release should be allowed")
	}
}

func TestMemoryTrackerReservationBlocksConcurrentAttempt(t *testing.T) {
	tracker := NewMemoryTracker()

	allowed, _ := tracker.Reserve("jane@acme.com", "starter")
	if !allowed {
		t.Fatal("first reserve should be allowed")
	}

	// Uncommitted reservation already counts against the limit
	allowed, _ = tracker.Reserve("jane@acme.com", "starter")
	if allowed {
		t.Error("overlapping reservation should be denied")
	}
}

func TestMemoryTrackerConcurrentReserveAdmitsExactlyOne(t *testing.T) {
	tracker := NewMemoryTracker()

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := tracker.Reserve("jane@acme.com", "starter")
			if err != nil {
				t.Errorf("reserve: %v", err)
				return
			}
			results <- allowed
		}()
	}
	wg.Wait()
	close(results)

	admitted := 0
	for allowed := range results {
		if allowed {
			admitted++
		}
	}
	if admitted != 1 {
		t.Errorf("admitted = %d, want exactly 1", admitted)
	}
}

func TestMemoryTrackerUnlimitedPlans(t *testing.T) {
	tracker := NewMemoryTracker()

	for _, plan := range []string{"business", "enterprise", "", "pro"} {
		for i := 0; i < 5; i++ {
			allowed, err := tracker.Reserve("jane@acme.com", plan)
			if err != nil || !allowed {
				t.Fatalf("plan %q attempt %d: allowed=%v err=%v", plan, i, allowed, err)
			}
			if err := tracker.Commit("jane@acme.com", plan); err != nil {
				t.Fatalf("plan %q commit: %v", plan, err)
			}
		}
	}
}

func TestQuotaIdentityAndPlanNormalization(t *testing.T) {
	tracker := NewMemoryTracker()

	// Plan matching is case-insensitive and whitespace-tolerant
	allowed, _ := tracker.Reserve("jane@acme.com", "  Starter ")
	if !allowed {
		t.Fatal("first reserve should be allowed")
	}
	if err := tracker.Commit("jane@acme.com", "STARTER"); err != nil {
		t.Fatalf("commit: %v", err)
	}

	// Identity matching is case-insensitive too
	allowed, _ = tracker.Reserve("JANE@ACME.COM", "starter")
	if allowed {
		t.Error("case-variant identity should share the same quota slot")
	}
}

func TestPlanLimited(t *testing.T) {
	cases := []struct {
		plan string
		want bool
	}{
		{"starter", true},
		{"Starter", true},
		{" STARTER ", true},
		{"business", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := PlanLimited(tc.plan); got != tc.want {
			t.Errorf("PlanLimited(%q) = %v, want %v", tc.plan, got, tc.want)
		}
	}
}

func TestQuotaKey(t *testing.T) {
	if got := QuotaKey("  Jane@Acme.COM "); got != "jane@acme.com" {
		t.Errorf("QuotaKey = %q", got)
	}
}
