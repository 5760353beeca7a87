package engine

import (
	"container/heap"
	"sync"
	"time"

	"github.com/idslab-sim/trafficgen/pkg/models"
)

// EventType represents the type of simulation event
type EventType string

const (
	// EventTypeFlowStart represents a flow's application coming up
	EventTypeFlowStart EventType = "flow_start"

	// EventTypeFlowStop represents a flow's application shutting down
	EventTypeFlowStop EventType = "flow_stop"

	// EventTypeHorizonEnd represents the end of the scenario
	EventTypeHorizonEnd EventType = "horizon_end"
)

// Event is one discrete event on the scenario clock. Time is an offset
// from the scenario origin.
type Event struct {
	Seq  int64
	Type EventType
	Time time.Duration
	Flow *models.FlowDescriptor
}

// EventQueue is a priority queue of events ordered by time, with insertion
// order (Seq) breaking ties so equal-time events replay deterministically.
type EventQueue struct {
	events []*Event
	mu     sync.RWMutex
}

// NewEventQueue creates a new event queue
func NewEventQueue() *EventQueue {
	eq := &EventQueue{
		events: make([]*Event, 0),
	}
	heap.Init(eq)
	return eq
}

// Len returns the number of events in the queue
func (eq *EventQueue) Len() int {
	return len(eq.events)
}

// Less compares two events by time, then by insertion order
func (eq *EventQueue) Less(i, j int) bool {
	if eq.events[i].Time != eq.events[j].Time {
		return eq.events[i].Time < eq.events[j].Time
	}
	return eq.events[i].Seq < eq.events[j].Seq
}

// Swap swaps two events in the queue
func (eq *EventQueue) Swap(i, j int) {
	eq.events[i], eq.events[j] = eq.events[j], eq.events[i]
}

// Push adds an event to the queue
func (eq *EventQueue) Push(x interface{}) {
	eq.events = append(eq.events, x.(*Event))
}

// Pop removes and returns the next event from the queue
func (eq *EventQueue) Pop() interface{} {
	old := eq.events
	n := len(old)
	event := old[n-1]
	old[n-1] = nil // avoid memory leak
	eq.events = old[0 : n-1]
	return event
}

// Schedule adds an event to the queue (thread-safe)
func (eq *EventQueue) Schedule(event *Event) {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	heap.Push(eq, event)
}

// Next removes and returns the next event (thread-safe)
func (eq *EventQueue) Next() *Event {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	if eq.Len() == 0 {
		return nil
	}
	return heap.Pop(eq).(*Event)
}

// Peek returns the next event without removing it (thread-safe)
func (eq *EventQueue) Peek() *Event {
	eq.mu.RLock()
	defer eq.mu.RUnlock()
	if eq.Len() == 0 {
		return nil
	}
	return eq.events[0]
}

// Clear removes all events from the queue (thread-safe)
func (eq *EventQueue) Clear() {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	eq.events = make([]*Event, 0)
	heap.Init(eq)
}

// Size returns the current queue size (thread-safe)
func (eq *EventQueue) Size() int {
	eq.mu.RLock()
	defer eq.mu.RUnlock()
	return eq.Len()
}

// IsEmpty returns true if the queue is empty (thread-safe)
func (eq *EventQueue) IsEmpty() bool {
	return eq.Size() == 0
}
