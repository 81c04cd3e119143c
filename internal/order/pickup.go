package order

import "time"

const (
	OpeningHour  = 9
	ClosingHour  = 18
	SlotInterval = 30 * time.Minute
	SlotLayout   = "15:04"

	DefaultZone = "Africa/Johannesburg"
)

// InZone returns now on zone's wall clock. A nil zone leaves now unchanged.
func InZone(now time.Time, zone *time.Location) time.Time {
	if zone == nil {
		return now
	}
	return now.In(zone)
}

// PickupSlots lists the same-day pickup times still ahead of now, every
// half hour from opening to closing inclusive.
func PickupSlots(now time.Time) []string {
	year, month, day := now.Date()
	opening := time.Date(year, month, day, OpeningHour, 0, 0, 0, now.Location())
	closing := time.Date(year, month, day, ClosingHour, 0, 0, 0, now.Location())

	slots := []string{}
	for t := opening; !t.After(closing); t = t.Add(SlotInterval) {
		if !t.After(now) {
			continue
		}
		slots = append(slots, t.Format(SlotLayout))
	}

	return slots
}

// IsPickupSlotAvailable reports whether slot is one of the times offered at now.
func IsPickupSlotAvailable(slot string, now time.Time) bool {
	for _, s := range PickupSlots(now) {
		if s == slot {
			return true
		}
	}

	return false
}
