package system

import "time"

// System is one phase of a world update.
type System interface {
	Update(w *World, now time.Time)
}

// SystemFunc adapts a function to System.
type SystemFunc func(w *World, now time.Time)

func (f SystemFunc) Update(w *World, now time.Time) { f(w, now) }

// Scheduler runs its systems in the order they were added.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler) Update(w *World, now time.Time) {
	for _, system := range s.systems {
		system.Update(w, now)
	}
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
