package rayforce

import (
	"github.com/akmonengine/rayforce/actor"
)

const (
	CONTACT_ENTER EventType = iota
	CONTACT_STAY
	CONTACT_EXIT
	ON_SLEEP
	ON_WAKE
)

type pairKey struct {
	bodyA *actor.RigidBody
	bodyB *actor.RigidBody
}

// makePairKey creates a normalized pair key, ordered by body index
func makePairKey(bodyA, bodyB *actor.RigidBody) pairKey {
	if bodyB.ID.Index < bodyA.ID.Index {
		bodyA, bodyB = bodyB, bodyA
	}

	return pairKey{bodyA: bodyA, bodyB: bodyB}
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Contact events. Listeners read RigidBody.UserData to find the bodies' owners.
type ContactEnterEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e ContactEnterEvent) Type() EventType { return CONTACT_ENTER }

type ContactStayEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e ContactStayEvent) Type() EventType { return CONTACT_STAY }

type ContactExitEvent struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

func (e ContactExitEvent) Type() EventType { return CONTACT_EXIT }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Contact tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
		sleepStates:         make(map[*actor.RigidBody]bool),
	}
}

// ensure makes a zero Events usable
func (e *Events) ensure() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.ensure()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContacts is called during substeps to record overlapping pairs
func (e *Events) recordContacts(pairs []Pair) {
	e.ensure()
	for _, p := range pairs {
		e.currentActivePairs[makePairKey(p.BodyA, p.BodyB)] = true
	}
}

// forget drops every reference to a released body, without emitting exit events
func (e *Events) forget(body *actor.RigidBody) {
	delete(e.sleepStates, body)
	for pair := range e.previousActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.bodyA == body || pair.bodyB == body {
			delete(e.currentActivePairs, pair)
		}
	}
}

// processContactEvents compares current and previous pairs to detect Enter/Stay/Exit
// Should be called after all substeps
func (e *Events) processContactEvents() {
	for pair := range e.currentActivePairs {
		// Skip if both bodies are sleeping, to avoid spamming events
		if pair.bodyA.IsSleeping && pair.bodyB.IsSleeping {
			continue
		}

		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, ContactStayEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		} else {
			e.buffer = append(e.buffer, ContactEnterEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, ContactExitEvent{BodyA: pair.bodyA, BodyB: pair.bodyB})
		}
	}

	// Swap for next frame and clear current
	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	e.ensure()
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processContactEvents()

	for _, event := range e.buffer {
		for _, listener := range e.listeners[event.Type()] {
			listener(event)
		}
	}
	e.buffer = e.buffer[:0]
}
