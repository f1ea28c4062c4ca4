package event

import (
	"slices"
	"sync"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// subscription is one handler and the event types it accepts.
// A nil type set accepts every event.
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s *subscription) accepts(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// subscriptions keeps handlers in subscription order so delivery is
// deterministic. Each handler appears at most once.
type subscriptions struct {
	mu   sync.RWMutex
	list []*subscription
}

// add subscribes handler to eventTypes, or to everything when none are given.
// Subscribing an existing handler widens its type set.
func (s *subscriptions) add(handler shared.EventHandler, eventTypes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sub *subscription
	if idx := slices.IndexFunc(s.list, func(x *subscription) bool { return x.handler == handler }); idx >= 0 {
		sub = s.list[idx]
	} else {
		sub = &subscription{handler: handler, types: make(map[string]struct{})}
		s.list = append(s.list, sub)
	}

	if len(eventTypes) == 0 {
		sub.types = nil
		return
	}
	if sub.types == nil {
		// already accepts everything
		return
	}
	for _, t := range eventTypes {
		sub.types[t] = struct{}{}
	}
}

func (s *subscriptions) remove(handler shared.EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = slices.DeleteFunc(s.list, func(sub *subscription) bool { return sub.handler == handler })
}

// matching returns the handlers that accept eventType
func (s *subscriptions) matching(eventType string) []shared.EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]shared.EventHandler, 0, len(s.list))
	for _, sub := range s.list {
		if sub.accepts(eventType) {
			out = append(out, sub.handler)
		}
	}
	return out
}

func (s *subscriptions) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}
