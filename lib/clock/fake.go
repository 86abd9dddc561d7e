// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called; pending After and Sleep waiters fire
// when the clock advances past their deadline.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for testing. Time advances only
// when Advance is called.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time
}

// Now returns the fake clock's current time.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// After registers a waiter that fires when the clock advances past
// deadline. If d <= 0, the channel receives immediately.
func (clock *FakeClock) After(d time.Duration) <-chan time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- clock.current
		return channel
	}
	clock.waiters = append(clock.waiters, &fakeWaiter{
		deadline: clock.current.Add(d),
		channel:  channel,
	})
	return channel
}

// Sleep blocks until the clock is advanced past the deadline.
func (clock *FakeClock) Sleep(d time.Duration) {
	<-clock.After(d)
}

// Advance moves the clock forward by d, firing expired waiters in
// deadline order.
func (clock *FakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	clock.current = clock.current.Add(d)
	deadline := clock.current

	var fired []*fakeWaiter
	var remaining []*fakeWaiter
	for _, waiter := range clock.waiters {
		if !waiter.deadline.After(deadline) {
			fired = append(fired, waiter)
		} else {
			remaining = append(remaining, waiter)
		}
	}
	clock.waiters = remaining
	clock.mu.Unlock()

	sort.Slice(fired, func(i, j int) bool {
		return fired[i].deadline.Before(fired[j].deadline)
	})
	for _, waiter := range fired {
		waiter.channel <- waiter.deadline
	}
}
