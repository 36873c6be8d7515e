package catalogue

// MinSlots is the number of slots the mixer always shows
const MinSlots = 2

// Mixer holds the ordered slots chosen for synthesis. Each slot is an
// entry id or "" when empty. No id occupies more than one slot.
type Mixer struct {
	slots []string
}

// NewMixer restores a mixer from stored slot ids. Repeated ids are
// dropped and the result is padded to MinSlots.
func NewMixer(ids []string) *Mixer {
	seen := make(map[string]bool, len(ids))
	slots := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		slots = append(slots, id)
	}
	return &Mixer{slots: pad(slots)}
}

// Slots returns a copy of the slot ids
func (m *Mixer) Slots() []string {
	return append([]string(nil), m.slots...)
}

// Filled returns the occupied slot ids in slot order
func (m *Mixer) Filled() []string {
	var ids []string
	for _, id := range m.slots {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Contains reports whether id occupies a slot
func (m *Mixer) Contains(id string) bool {
	for _, s := range m.slots {
		if s == id {
			return true
		}
	}
	return false
}

// Add puts id in the first empty slot, appending a slot when all are full.
// It reports false if id is already in the mixer.
func (m *Mixer) Add(id string) bool {
	if id == "" || m.Contains(id) {
		return false
	}
	for i, s := range m.slots {
		if s == "" {
			m.slots[i] = id
			return true
		}
	}
	m.slots = append(m.slots, id)
	return true
}

// AddSlot appends an empty slot
func (m *Mixer) AddSlot() {
	m.slots = append(m.slots, "")
}

// Remove drops the slot at index i and compacts away empty slots, then
// pads back to MinSlots. Out of range indexes only compact.
func (m *Mixer) Remove(i int) {
	filled := make([]string, 0, len(m.slots))
	for j, id := range m.slots {
		if j == i || id == "" {
			continue
		}
		filled = append(filled, id)
	}
	m.slots = pad(filled)
}

// Clear resets to MinSlots empty slots
func (m *Mixer) Clear() {
	m.slots = pad(nil)
}

// Reconcile empties any slot holding id, keeping slot positions.
// It reports whether a slot changed.
func (m *Mixer) Reconcile(id string) bool {
	if id == "" {
		return false
	}
	changed := false
	for i, s := range m.slots {
		if s == id {
			m.slots[i] = ""
			changed = true
		}
	}
	return changed
}

func pad(slots []string) []string {
	for len(slots) < MinSlots {
		slots = append(slots, "")
	}
	return slots
}
