package component

// CombatEventType defines the kind of combat event.
type CombatEventType string

const (
	EventDamageApplied CombatEventType = "damage_applied"
	EventDeath         CombatEventType = "death"
)

// CombatEvent is emitted when the orchestrator resolves a contact.
type CombatEvent struct {
	Type   CombatEventType
	Source string
	Damage int
	Health int
	TileX  int
	TileY  int
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// CombatEventEmitter fans a combat event out to every handler.
type CombatEventEmitter struct {
	Handlers []CombatEventHandler
}

// Subscribe adds a handler.
func (e *CombatEventEmitter) Subscribe(h CombatEventHandler) {
	if e == nil || h == nil {
		return
	}
	e.Handlers = append(e.Handlers, h)
}

// Emit sends a combat event to all handlers.
func (e *CombatEventEmitter) Emit(evt CombatEvent) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}
