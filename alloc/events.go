package alloc

import "github.com/wippyai/ownkit"

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventReleased
)

// String returns the lowercase label used in logs and journals.
func (t EventType) String() string {
	switch t {
	case EventAllocated:
		return "allocated"
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event. Seq is the allocation
// sequence number stamped by the Tracker; it is unique within a Tracker and
// never reused.
type Event struct {
	Res   *ownkit.Resource
	Seq   uint64
	Value int
	Type  EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}
