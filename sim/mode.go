package sim

import "fmt"

// Mode is the two-state simulation controller. In Menu the estimator holds
// position and the vision simulator reports no target; Active runs the full
// pipeline. The initial state is Menu.
type Mode int

const (
	ModeMenu Mode = iota
	ModeActive
)

func (m Mode) String() string {
	switch m {
	case ModeMenu:
		return "MENU"
	case ModeActive:
		return "ACTIVE"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
