package core

import (
	"fmt"
	"iter"
	"sync"
	"time"
)

// Event is one audit entry produced by a mutating domain operation.
type Event struct {
	Time        time.Time
	Description string
}

// String renders the timestamp and description on two lines.
func (e Event) String() string {
	return e.Time.Format(time.UnixDate) + "\n" + e.Description
}

// EventLog is an append-only record of mutations for one session. Budgets
// and trackers hold the log they were created with; a nil log discards.
type EventLog struct {
	mu     sync.Mutex
	events []Event
	now    func() time.Time
}

// NewEventLog returns an empty log stamped with the wall clock.
func NewEventLog() *EventLog {
	return &EventLog{now: time.Now}
}

// NewEventLogWithClock returns an empty log that reads time from now.
func NewEventLogWithClock(now func() time.Time) *EventLog {
	return &EventLog{now: now}
}

// Log appends an event with the given description.
func (l *EventLog) Log(description string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, Event{Time: l.now(), Description: description})
}

// Logf formats and appends an event.
func (l *EventLog) Logf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Log(fmt.Sprintf(format, args...))
}

// Events returns a snapshot of the log in append order.
func (l *EventLog) Events() []Event {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// All yields the events logged so far.
func (l *EventLog) All() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, e := range l.Events() {
			if !yield(e) {
				return
			}
		}
	}
}

// Len returns the number of events.
func (l *EventLog) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
