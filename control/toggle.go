package control

// Toggle turns a held button into an on/off switch that flips once per press,
// like the menu key.
type Toggle struct {
	on      bool
	wasDown bool
}

// NewToggle creates a toggle in the given state.
func NewToggle(on bool) *Toggle {
	return &Toggle{on: on}
}

// Update feeds the current button state and reports whether the toggle
// flipped.
func (t *Toggle) Update(down bool) bool {
	flipped := down && !t.wasDown
	if flipped {
		t.on = !t.on
	}
	t.wasDown = down
	return flipped
}

// On reports the current state.
func (t *Toggle) On() bool { return t.on }
