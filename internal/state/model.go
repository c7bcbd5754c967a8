package state

import (
	"fmt"
	"strings"
)

// Phase is the kind of pointer event delivered by the presentation layer.
type Phase int

const (
	PointerDown Phase = iota
	PointerMove
	PointerUp
	PointerLeave
)

var phaseNames = [...]string{
	PointerDown:  "down",
	PointerMove:  "move",
	PointerUp:    "up",
	PointerLeave: "leave",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase looks a phase up by name.
func ParsePhase(s string) (Phase, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range phaseNames {
		if n == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("state: unknown pointer phase %q", s)
}
