package subject

import (
	"fmt"
	"strconv"
	"strings"

	"adjectivemagic/internal/domain"
)

// Slot identifies one side of the comparison.
type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

// Slots lists both comparison sides in display order.
var Slots = [2]Slot{Slot1, Slot2}

var placeholderColors = map[Slot]string{
	Slot1: "F6D365",
	Slot2: "84FAB0",
}

// ParseSlot parses the "1"/"2" path form of a slot.
func ParseSlot(raw string) (Slot, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidSlot, raw)
	}
	s := Slot(n)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidSlot, n)
	}
	return s, nil
}

func (s Slot) Valid() bool {
	return s == Slot1 || s == Slot2
}

// Index is the zero-based array position of the slot.
func (s Slot) Index() int {
	return int(s) - 1
}

func (s Slot) String() string {
	return strconv.Itoa(int(s))
}

// PlaceholderName is the default display name of an empty slot.
func (s Slot) PlaceholderName() string {
	return fmt.Sprintf("Player %d", int(s))
}

// PlaceholderPreview is the static image shown before a photo is chosen.
func (s Slot) PlaceholderPreview() string {
	return fmt.Sprintf("https://placehold.co/150x150/%s/FFFFFF?text=Player+%d", placeholderColors[s], int(s))
}

// Subject is the read-only view of one comparison side.
type Subject struct {
	Slot    Slot   `json:"slot"`
	Name    string `json:"name"`
	Preview string `json:"preview"`
	HasFile bool   `json:"has_file"`
}

// Placeholder returns the initial record for slot.
func Placeholder(s Slot) Subject {
	return Subject{Slot: s, Name: s.PlaceholderName(), Preview: s.PlaceholderPreview()}
}

// DisplayName trims name and substitutes the slot placeholder for blank input.
func DisplayName(s Slot, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.PlaceholderName()
	}
	return name
}
