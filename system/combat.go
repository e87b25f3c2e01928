package system

import (
	"log"
	"time"

	"github.com/milk9111/dungeon/common"
	"github.com/milk9111/dungeon/component"
	"github.com/milk9111/dungeon/obj"
)

// ResolveContacts runs the frame's single contact check. The first hazard
// overlapping a vulnerable player deals its damage; the rest are ignored
// this frame. Damage and death are emitted to em.
func ResolveContacts(l *obj.Level, now time.Time, em *component.CombatEventEmitter) bool {
	p := l.Player()
	if p == nil || p.Invincible() || p.IsDead() {
		return false
	}
	pb := p.Bounds()
	for _, h := range l.Hazards() {
		if !pb.Intersects(h.Bounds()) {
			continue
		}
		dmg := h.ContactDamage()
		if !p.TakeDamage(dmg, now) {
			return false
		}
		evt := component.CombatEvent{
			Type:   component.EventDamageApplied,
			Source: h.Name(),
			Damage: dmg,
			Health: p.Health().Current,
			TileX:  common.TileOf(p.X),
			TileY:  common.TileOf(p.Y),
		}
		em.Emit(evt)
		if p.IsDead() {
			log.Printf("combat: player killed by %s at (%d,%d)", h.Name(), evt.TileX, evt.TileY)
			evt.Type = component.EventDeath
			em.Emit(evt)
		}
		return true
	}
	return false
}
