package voxelizer

import "fmt"

const (
	SURFACE_DONE EventType = iota
	OPEN_COLUMN
	FILL_DONE
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// SurfaceEvent is sent once the surface pass is over
type SurfaceEvent struct {
	Triangles int
	// Filled is the number of surface cells
	Filled int
}

func (e SurfaceEvent) Type() EventType { return SURFACE_DONE }

// OpenReason tells why the interior fill gave up on a column
type OpenReason uint8

const (
	// NoBackFace - the front run reached the end of the column
	NoBackFace OpenReason = iota
	// NoBackWall - no filled cell was found after the front run
	NoBackWall
)

func (r OpenReason) String() string {
	switch r {
	case NoBackFace:
		return "no back face"
	case NoBackWall:
		return "no back wall"
	default:
		return fmt.Sprintf("OpenReason(%d)", uint8(r))
	}
}

// OpenColumnEvent reports a column abandoned by the interior fill: the mesh is
// not closed along z at (X, Y). Z is the first cell of the unmatched front run;
// cells of the column from Z upward are left as the surface pass produced them.
type OpenColumnEvent struct {
	X, Y, Z int
	Reason  OpenReason
}

func (e OpenColumnEvent) Type() EventType { return OPEN_COLUMN }

// FillEvent is sent once the interior fill is over
type FillEvent struct {
	// Filled is the number of interior cells added by the fill
	Filled int
}

func (e FillEvent) Type() EventType { return FILL_DONE }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 16),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(events ...Event) {
	e.buffer = append(e.buffer, events...)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
