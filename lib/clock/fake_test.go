// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"

	"github.com/xayahn/eduforge/lib/testutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeNowAdvances(t *testing.T) {
	t.Parallel()

	fake := Fake(epoch)
	if got := fake.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	fake.Advance(3 * time.Second)
	if got, want := fake.Now(), epoch.Add(3*time.Second); !got.Equal(want) {
		t.Errorf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeAfterFiresOnlyAtDeadline(t *testing.T) {
	t.Parallel()

	fake := Fake(epoch)
	channel := fake.After(10 * time.Second)

	fake.Advance(9 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}
	if fake.PendingCount() != 1 {
		t.Fatalf("PendingCount = %d, want 1", fake.PendingCount())
	}

	fake.Advance(time.Second)
	select {
	case fired := <-channel:
		if want := epoch.Add(10 * time.Second); !fired.Equal(want) {
			t.Errorf("fired at %v, want %v", fired, want)
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
	if fake.PendingCount() != 0 {
		t.Errorf("PendingCount = %d after firing, want 0", fake.PendingCount())
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	t.Parallel()

	fake := Fake(epoch)
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) should fire immediately")
	}
	if fake.PendingCount() != 0 {
		t.Errorf("After(0) registered a waiter")
	}
}

func TestFakeWaitForTimers(t *testing.T) {
	t.Parallel()

	fake := Fake(epoch)
	fired := make(chan time.Time, 1)
	go func() {
		fired <- <-fake.After(time.Minute)
	}()

	fake.WaitForTimers(1)
	fake.Advance(time.Minute)
	at := testutil.RequireReceive(t, fired, 5*time.Second, "waiter did not fire")
	if want := epoch.Add(time.Minute); !at.Equal(want) {
		t.Errorf("fired at %v, want %v", at, want)
	}
}
