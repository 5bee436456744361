package events

import "sync"

// DefaultTransitionLogSize bounds the number of transitions kept in memory
const DefaultTransitionLogSize = 200

// TransitionLog keeps the most recent market status transitions seen on the bus
type TransitionLog struct {
	mu      sync.RWMutex
	entries []MarketStatusChangedData
	next    int
	full    bool
}

// NewTransitionLog creates a ring buffer holding up to size transitions
func NewTransitionLog(size int) *TransitionLog {
	if size <= 0 {
		size = DefaultTransitionLogSize
	}
	return &TransitionLog{entries: make([]MarketStatusChangedData, size)}
}

// Attach subscribes the log to MarketStatusChanged events and returns the unsubscribe function
func (l *TransitionLog) Attach(bus *Bus) func() {
	return bus.Subscribe(MarketStatusChanged, func(event *Event) {
		if data, ok := event.Data.(*MarketStatusChangedData); ok {
			l.Record(*data)
		}
	})
}

// Record appends a transition, overwriting the oldest one when full
func (l *TransitionLog) Record(t MarketStatusChangedData) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[l.next] = t
	l.next = (l.next + 1) % len(l.entries)
	if l.next == 0 {
		l.full = true
	}
}

// Recent returns up to limit transitions, newest first. A non-positive limit returns all of them.
// An exchange filter other than "" keeps only that exchange's transitions.
func (l *TransitionLog) Recent(limit int, exchange string) []MarketStatusChangedData {
	l.mu.RLock()
	defer l.mu.RUnlock()

	count := l.next
	if l.full {
		count = len(l.entries)
	}

	result := make([]MarketStatusChangedData, 0, count)
	for i := 0; i < count; i++ {
		idx := (l.next - 1 - i + len(l.entries)) % len(l.entries)
		entry := l.entries[idx]
		if exchange != "" && entry.Exchange != exchange {
			continue
		}
		result = append(result, entry)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result
}

// Len returns the number of stored transitions
func (l *TransitionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.full {
		return len(l.entries)
	}
	return l.next
}
