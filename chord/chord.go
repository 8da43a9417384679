package chord

import (
	"strconv"

	"github.com/Ayman-Singh/IoT-InvisiStrings/constants"
)

// Names maps chord slots to the chords wired on the touch glove.
var Names = map[int]string{
	1: "A",
	2: "C",
	3: "D",
	4: "Em",
	5: "G",
}

func Label(slot int) string {
	if name, ok := Names[slot]; ok {
		return name
	}
	return strconv.Itoa(slot)
}

// State is the single active chord slot. Touch events overwrite it
// unconditionally; there is no queueing or coalescing, the latest valid
// touch is always the truth.
type State struct {
	active int
}

func NewState() *State {
	return &State{active: constants.DefaultChord}
}

// SetActive switches the active slot. Out-of-range slots are rejected
// and leave the state untouched.
func (s *State) SetActive(slot int) bool {
	if slot < 1 || slot > constants.ChordCount {
		return false
	}
	s.active = slot
	return true
}

func (s *State) Active() int {
	return s.active
}
