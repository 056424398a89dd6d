package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of an engine event.
type EventType string

const (
	// Turn flow events
	EventTurnStarted EventType = "TURN_STARTED"
	EventTurnEnded   EventType = "TURN_ENDED"
	EventTurnSkipped EventType = "TURN_SKIPPED"
	EventNewRound    EventType = "NEW_ROUND"
	EventGameOver    EventType = "GAME_OVER"

	// Movement events
	EventDiceRolled     EventType = "DICE_ROLLED"
	EventMoved          EventType = "MOVED"
	EventPassedStart    EventType = "PASSED_START"
	EventPendingChoice  EventType = "PENDING_CHOICE"
	EventTeleported     EventType = "TELEPORTED"
	EventSentToJail     EventType = "SENT_TO_JAIL"
	EventSentToHospital EventType = "SENT_TO_HOSPITAL"

	// Economy events
	EventPropertyPurchased EventType = "PROPERTY_PURCHASED"
	EventPropertyUpgraded  EventType = "PROPERTY_UPGRADED"
	EventPropertyMortgaged EventType = "PROPERTY_MORTGAGED"
	EventPropertyRedeemed  EventType = "PROPERTY_REDEEMED"
	EventFacilityChanged   EventType = "FACILITY_CHANGED"
	EventRentPaid          EventType = "RENT_PAID"
	EventFacilityFeePaid   EventType = "FACILITY_FEE_PAID"
	EventTaxPaid           EventType = "TAX_PAID"
	EventLoanTaken         EventType = "LOAN_TAKEN"
	EventLoanSettled       EventType = "LOAN_SETTLED"
	EventLoanDefaulted     EventType = "LOAN_DEFAULTED"
	EventBankrupt          EventType = "BANKRUPT"

	// Card and tile events
	EventCardBought   EventType = "CARD_BOUGHT"
	EventCardUsed     EventType = "CARD_USED"
	EventCardBlocked  EventType = "CARD_BLOCKED"
	EventTileEvent    EventType = "TILE_EVENT"

	// Queue events
	EventActionQueued    EventType = "ACTION_QUEUED"
	EventActionCompleted EventType = "ACTION_COMPLETED"
)

// Event is the bounded payload delivered to observers for one notable state
// change. One typed enum with a fixed payload, consumed by the presentation
// layer; never used internally for control flow.
type Event struct {
	Type      EventType
	GameID    string
	PlayerID  string
	TargetID  string
	Tile      int
	Amount    int
	Detail    string
	Timestamp time.Time
}

// NewEvent creates an event with common fields populated.
func NewEvent(eventType EventType, gameID, playerID string) Event {
	return Event{
		Type:      eventType,
		GameID:    gameID,
		PlayerID:  playerID,
		Tile:      -1,
		Timestamp: time.Now(),
	}
}

// Listener reacts to incoming events.
type Listener func(Event)

// TypedListener reacts to a single event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type
// filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	for _, listener := range bus.listeners {
		listener(event)
	}
	if typed, ok := bus.typedListeners[event.Type]; ok {
		for _, listener := range typed {
			listener.Callback(event)
		}
	}
}
