package utils

import (
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	Event string                 `json:"event"`
	Data  map[string]interface{} `json:"data"`
}

type Handler func(event Event)

const eventBufferSize = 100

type EventBus struct {
	subscribers map[string][]Handler
	events      chan Event
	logger      *zap.SugaredLogger
	mu          sync.RWMutex
}

func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[string][]Handler),
		events:      make(chan Event, eventBufferSize),
		logger:      logger.Sugar(),
	}
}

// Publish never blocks the caller. A full buffer drops the event, which is
// logged so lost domain events stay observable.
func (eb *EventBus) Publish(event string, data map[string]interface{}) {
	e := Event{Event: event, Data: data}
	select {
	case eb.events <- e:
	default:
		eb.logger.Warnw("Event dropped: bus buffer full", "event", event)
	}
}

func (eb *EventBus) Subscribe(event string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers[event] = append(eb.subscribers[event], handler)
}

// Run delivers published events to every subscriber of the event name.
// Handlers run on the dispatcher goroutine, in subscription order.
func (eb *EventBus) Run() {
	for e := range eb.events {
		eb.mu.RLock()
		handlers := append([]Handler(nil), eb.subscribers[e.Event]...)
		eb.mu.RUnlock()
		for _, h := range handlers {
			h(e)
		}
	}
}
