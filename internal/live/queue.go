package live

import "github.com/XavierBriggs/fortuna/services/game-results-service/pkg/models"

// Queue is the ordered event stream of one game. Events are removed from the
// front as they are processed. A Queue belongs to one session and is not safe
// for concurrent use.
type Queue struct {
	events []models.Event
}

// NewQueue creates a queue holding events in order.
func NewQueue(events []models.Event) *Queue {
	q := &Queue{events: make([]models.Event, len(events))}
	copy(q.events, events)
	return q
}

// Pop removes and returns the front event.
func (q *Queue) Pop() (models.Event, bool) {
	if len(q.events) == 0 {
		return nil, false
	}
	e := q.events[0]
	q.events[0] = nil
	q.events = q.events[1:]
	return e, true
}

// Len returns the number of unprocessed events.
func (q *Queue) Len() int {
	return len(q.events)
}
