package core

import (
	"sync"

	"github.com/spaghettifunk/bilhar/engine/containers"
)

// EventCode identifies a kind of event. Application codes should start at EVENT_CODE_USER.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = iota + 1
	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED
	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED
	// Mouse button pressed. Data: *MouseEvent
	EVENT_CODE_BUTTON_PRESSED
	// Mouse button released. Data: *MouseEvent
	EVENT_CODE_BUTTON_RELEASED
	// Mouse moved. Data: *MouseEvent with PosX/PosY
	EVENT_CODE_MOUSE_MOVED
	// Mouse wheel scrolled. Data: *MouseEvent with Scroll
	EVENT_CODE_MOUSE_WHEEL
	// Framebuffer resized. Data: *SystemEvent
	EVENT_CODE_RESIZED
	// A watched asset was created, written or removed. Data: *AssetEvent
	EVENT_CODE_ASSET_CHANGED

	EVENT_CODE_USER EventCode = 0xFF
)

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   float64
	PosY   float64
	Scroll float64
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type AssetEvent struct {
	Path    string
	Removed bool
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventSystem routes events to registered listeners. Fire runs the callbacks
// immediately on the calling goroutine; Post queues the event so that it is
// delivered by the next Dispatch, which the engine calls from the render thread.
type EventSystem struct {
	mu         sync.Mutex
	registered map[EventCode][]*registeredEvent

	queueMu sync.Mutex
	queue   *containers.RingQueue[EventContext]
	dropped int
}

func NewEventSystem(queueSize int) *EventSystem {
	return &EventSystem{
		registered: make(map[EventCode][]*registeredEvent),
		queue:      containers.NewRingQueue[EventContext](queueSize),
	}
}

// Register adds a listener for the code. A listener can only be registered once
// per code; a duplicate returns false.
func (es *EventSystem) Register(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	if onEvent == nil {
		return false
	}
	es.mu.Lock()
	defer es.mu.Unlock()

	for _, e := range es.registered[code] {
		if listener != nil && e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// Unregister removes the listener from the code. Returns false if it was not registered.
func (es *EventSystem) Unregister(code EventCode, listener interface{}) bool {
	es.mu.Lock()
	defer es.mu.Unlock()

	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// Fire delivers the event to listeners in registration order until one of them
// reports it as handled.
func (es *EventSystem) Fire(context EventContext) bool {
	es.mu.Lock()
	events := make([]*registeredEvent, len(es.registered[context.Type]))
	copy(events, es.registered[context.Type])
	es.mu.Unlock()

	for _, e := range events {
		if e.callback(context) {
			return true
		}
	}
	return false
}

// Post queues the event for the next Dispatch. Safe to call from any goroutine.
func (es *EventSystem) Post(context EventContext) error {
	es.queueMu.Lock()
	defer es.queueMu.Unlock()

	if err := es.queue.Enqueue(context); err != nil {
		es.dropped++
		return err
	}
	return nil
}

// Dispatch fires every queued event and returns how many were delivered.
func (es *EventSystem) Dispatch() int {
	count := 0
	for {
		es.queueMu.Lock()
		context, err := es.queue.Dequeue()
		es.queueMu.Unlock()
		if err != nil {
			return count
		}
		es.Fire(context)
		count++
	}
}

// Dropped reports how many posted events were discarded because the queue was full.
func (es *EventSystem) Dropped() int {
	es.queueMu.Lock()
	defer es.queueMu.Unlock()
	return es.dropped
}

func (es *EventSystem) Shutdown() {
	es.mu.Lock()
	es.registered = make(map[EventCode][]*registeredEvent)
	es.mu.Unlock()

	es.queueMu.Lock()
	for !es.queue.IsEmpty() {
		_, _ = es.queue.Dequeue()
	}
	es.queueMu.Unlock()
}
