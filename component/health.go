package component

// Health is a reusable health pool for anything that can take damage.
type Health struct {
	Max     int
	Current int

	OnDamage func(h *Health, amount int)
	OnDeath  func(h *Health)
}

// NewHealth creates a Health with max/current initialized.
func NewHealth(max int) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether any health remains.
func (h *Health) IsAlive() bool {
	return h != nil && h.Current > 0
}

// IsDead reports whether health has been depleted.
func (h *Health) IsDead() bool {
	return h == nil || h.Current <= 0
}

// ApplyDamage removes amount, never going below zero. Returns false for
// non-positive amounts or an already dead pool.
func (h *Health) ApplyDamage(amount int) bool {
	if h == nil || amount <= 0 || h.Current <= 0 {
		return false
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	if h.OnDamage != nil {
		h.OnDamage(h, amount)
	}
	if h.Current == 0 && h.OnDeath != nil {
		h.OnDeath(h)
	}
	return true
}

// Heal restores health up to Max.
func (h *Health) Heal(amount int) {
	if h == nil || h.Current <= 0 || amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// Reset refills the pool.
func (h *Health) Reset() {
	if h == nil {
		return
	}
	h.Current = h.Max
}
