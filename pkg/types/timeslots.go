package types

import (
	"fmt"
	"regexp"
	"sort"
)

// TimeSlots is an ordered set of "HH:MM" start times. It is persisted as a
// JSON array on the availability row.
type TimeSlots []string

var slotPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidSlot reports whether value is a well-formed 24h "HH:MM" start time.
func ValidSlot(value string) bool {
	return slotPattern.MatchString(value)
}

// Normalize validates every slot, removes duplicates and returns the result
// in ascending lexical order. Lexical order equals chronological order for
// zero-padded "HH:MM" values.
func Normalize(slots []string) (TimeSlots, error) {
	seen := make(map[string]struct{}, len(slots))
	out := make(TimeSlots, 0, len(slots))
	for _, slot := range slots {
		if !ValidSlot(slot) {
			return nil, fmt.Errorf("invalid time slot %q", slot)
		}
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	sort.Strings(out)
	return out, nil
}

// Contains reports whether slot is present.
func (t TimeSlots) Contains(slot string) bool {
	for _, s := range t {
		if s == slot {
			return true
		}
	}
	return false
}

// Without returns a copy with slot removed. The second return reports whether
// the slot was present.
func (t TimeSlots) Without(slot string) (TimeSlots, bool) {
	out := make(TimeSlots, 0, len(t))
	found := false
	for _, s := range t {
		if s == slot {
			found = true
			continue
		}
		out = append(out, s)
	}
	return out, found
}

// With returns a sorted copy with slot added. Adding an existing slot is a
// no-op copy.
func (t TimeSlots) With(slot string) TimeSlots {
	if t.Contains(slot) {
		out := make(TimeSlots, len(t))
		copy(out, t)
		return out
	}
	out := make(TimeSlots, 0, len(t)+1)
	out = append(out, t...)
	out = append(out, slot)
	sort.Strings(out)
	return out
}
