package layout

// Modes is the manipulation state for one editing session. Edit mode is the
// authoritative shared flag; drag and resize are per-session toggles that
// behave as a radio pair.
type Modes struct {
	Edit   bool `json:"edit"`
	Drag   bool `json:"drag"`
	Resize bool `json:"resize"`
}

// ToggleDrag flips drag mode; enabling it switches resize mode off.
func (m *Modes) ToggleDrag() {
	m.Drag = !m.Drag
	if m.Drag {
		m.Resize = false
	}
}

// ToggleResize flips resize mode; enabling it switches drag mode off.
func (m *Modes) ToggleResize() {
	m.Resize = !m.Resize
	if m.Resize {
		m.Drag = false
	}
}

// Normalize enforces the radio constraint on state received from clients:
// when both toggles arrive set, resize wins and drag is dropped.
func (m Modes) Normalize() Modes {
	if m.Drag && m.Resize {
		m.Drag = false
	}
	return m
}

// CanDrag reports whether a drag-stop may persist geometry.
func (m Modes) CanDrag() bool { return m.Edit && m.Drag }

// CanResize reports whether a resize-stop may persist geometry.
func (m Modes) CanResize() bool { return m.Edit && m.Resize }
