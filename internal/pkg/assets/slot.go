package assets

import (
	"errors"
	"fmt"
	"sort"
)

// SlotState is the lifecycle position of one image slot.
type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotPresent
	SlotReplacing
	SlotDeleted
)

func (s SlotState) String() string {
	switch s {
	case SlotEmpty:
		return "empty"
	case SlotPresent:
		return "present"
	case SlotReplacing:
		return "replacing"
	case SlotDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("SlotState(%d)", int(s))
	}
}

// ErrSlotDeleted is returned for any operation on a deleted slot.
var ErrSlotDeleted = errors.New("assets: slot is deleted")

var transitions = map[SlotState][]SlotState{
	SlotEmpty:     {SlotPresent, SlotDeleted},
	SlotPresent:   {SlotReplacing, SlotDeleted},
	SlotReplacing: {SlotPresent},
}

// Slot is a named image position on a record, e.g. the mobile banner of an
// ad or one gallery image. Keys maps derivative name to storage key.
type Slot struct {
	Name  string
	Keys  map[string]string
	State SlotState
}

// NewSlot builds a slot from the keys currently persisted on a record.
// Empty keys are ignored; a slot without keys is Empty.
func NewSlot(name string, keys map[string]string) *Slot {
	s := &Slot{Name: name, Keys: map[string]string{}}
	for derivative, key := range keys {
		if key != "" {
			s.Keys[derivative] = key
		}
	}
	if len(s.Keys) > 0 {
		s.State = SlotPresent
	}
	return s
}

// KeyList returns the slot's keys in a stable order.
func (s *Slot) KeyList() []string {
	out := make([]string, 0, len(s.Keys))
	for _, key := range s.Keys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func (s *Slot) transition(to SlotState) error {
	if s.State == SlotDeleted {
		return ErrSlotDeleted
	}
	for _, allowed := range transitions[s.State] {
		if allowed == to {
			s.State = to
			return nil
		}
	}
	return fmt.Errorf("assets: slot %s cannot move from %s to %s", s.Name, s.State, to)
}
