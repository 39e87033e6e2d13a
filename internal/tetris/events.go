package tetris

import (
	"fmt"
	"sync"
)

// EventType identifies what happened in the engine
type EventType int

const (
	// EventPieceMoved fires when the current piece changes position or orientation
	EventPieceMoved EventType = iota
	// EventPieceDropped fires after a piece lands; Piece is the new current piece
	EventPieceDropped
	// EventLinesCleared fires after rows complete; Rows holds them top row first
	EventLinesCleared
	// EventLoss fires when blocks rest in the buffer, just before the reset
	EventLoss
	// EventRedraw fires when cleared rows are physically removed
	EventRedraw
)

func (t EventType) String() string {
	switch t {
	case EventPieceMoved:
		return "piece-moved"
	case EventPieceDropped:
		return "piece-dropped"
	case EventLinesCleared:
		return "lines-cleared"
	case EventLoss:
		return "loss"
	case EventRedraw:
		return "redraw"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is a notification from the engine to observers. The counters are those
// at the moment the event fired, so a Loss event carries the final session totals.
type Event struct {
	Type       EventType `json:"type"`
	Piece      PieceID   `json:"piece"`
	Rows       []int     `json:"rows,omitempty"`
	SessionID  string    `json:"session_id"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	TotalLines int       `json:"total_lines"`
}

// Handler receives events on the goroutine that mutated the game
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// router dispatches events to subscribed handlers in subscription order
type router struct {
	mu            sync.Mutex
	nextID        int
	subscriptions []subscription
}

// subscribe adds handler and returns a function that removes it
func (r *router) subscribe(handler Handler) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.subscriptions = append(r.subscriptions, subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { r.unsubscribe(id) })
	}
}

func (r *router) unsubscribe(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, sub := range r.subscriptions {
		if sub.id == id {
			r.subscriptions = append(r.subscriptions[:i:i], r.subscriptions[i+1:]...)
			return
		}
	}
}

// dispatch calls every handler with event
func (r *router) dispatch(event Event) {
	r.mu.Lock()
	subscriptions := r.subscriptions
	r.mu.Unlock()
	for _, sub := range subscriptions {
		sub.handler(event)
	}
}

// count returns the number of handlers
func (r *router) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscriptions)
}
