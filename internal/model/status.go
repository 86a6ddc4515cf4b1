package model

import (
	"fmt"
	"strings"
)

// Status is a duty status label. The engine treats it as an opaque key.
type Status string

// Reference duty statuses, in display order.
const (
	StatusMorningDesk   Status = "Atendimento 08:00-14:00"
	StatusAfternoonDesk Status = "Atendimento 12:00-18:00"
	StatusLab           Status = "Laboratório"
	StatusMorningBlip   Status = "Blip 08:00-14:00"
	StatusAfternoonBlip Status = "Blip 12:00-18:00"
	StatusHourBank      Status = "Banco de horas"
	StatusVacation      Status = "Férias"
)

// DefaultStatuses is the enumeration used when the config does not name one.
var DefaultStatuses = []Status{
	StatusMorningDesk,
	StatusAfternoonDesk,
	StatusLab,
	StatusMorningBlip,
	StatusAfternoonBlip,
	StatusHourBank,
	StatusVacation,
}

// DefaultStatus is the status every unassigned member lands on.
const DefaultStatus = StatusMorningDesk

// StatusSet is an ordered, duplicate-free enumeration of statuses with one
// designated default.
type StatusSet struct {
	statuses []Status
	index    map[Status]int
	def      Status
}

// NewStatusSet validates labels and def and returns the enumeration.
func NewStatusSet(labels []string, def string) (StatusSet, error) {
	if len(labels) == 0 {
		return StatusSet{}, fmt.Errorf("status list must not be empty")
	}

	set := StatusSet{
		statuses: make([]Status, 0, len(labels)),
		index:    make(map[Status]int, len(labels)),
		def:      Status(def),
	}
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			return StatusSet{}, fmt.Errorf("status labels must not be blank")
		}
		st := Status(label)
		if _, dup := set.index[st]; dup {
			return StatusSet{}, fmt.Errorf("duplicate status %q", label)
		}
		set.index[st] = len(set.statuses)
		set.statuses = append(set.statuses, st)
	}

	if _, ok := set.index[set.def]; !ok {
		return StatusSet{}, fmt.Errorf("default status %q is not in the status list", def)
	}
	return set, nil
}

// ReferenceStatusSet returns the seven-status enumeration of the reference
// deployment.
func ReferenceStatusSet() StatusSet {
	labels := make([]string, len(DefaultStatuses))
	for i, st := range DefaultStatuses {
		labels[i] = string(st)
	}
	set, err := NewStatusSet(labels, string(DefaultStatus))
	if err != nil {
		panic(err)
	}
	return set
}

// All returns the statuses in display order. The slice is a copy.
func (s StatusSet) All() []Status {
	out := make([]Status, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// Len returns the number of statuses.
func (s StatusSet) Len() int { return len(s.statuses) }

// Default returns the default status.
func (s StatusSet) Default() Status { return s.def }

// Index returns the display position of st, or -1.
func (s StatusSet) Index(st Status) int {
	i, ok := s.index[st]
	if !ok {
		return -1
	}
	return i
}

// Lookup matches a column label back to its status by exact comparison.
func (s StatusSet) Lookup(label string) (Status, bool) {
	st := Status(label)
	_, ok := s.index[st]
	return st, ok
}

// Labels returns the statuses as plain strings, in display order.
func (s StatusSet) Labels() []string {
	out := make([]string, len(s.statuses))
	for i, st := range s.statuses {
		out[i] = string(st)
	}
	return out
}
