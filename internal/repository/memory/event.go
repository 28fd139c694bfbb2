package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/event"
)

type EventRepository struct {
	mu     sync.RWMutex
	events map[string]event.Event
}

func NewEventRepository(events ...event.Event) *EventRepository {
	r := &EventRepository{events: make(map[string]event.Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

// GetByID implements event.EventRepository.
func (r *EventRepository) GetByID(_ context.Context, id string) (event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok || e.DeletedAt != nil {
		return event.Event{}, event.ErrEventNotFound
	}
	return e, nil
}

// Put seeds or replaces an event. Test helper.
func (r *EventRepository) Put(e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[e.ID] = e
}
