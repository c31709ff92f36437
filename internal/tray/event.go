package tray

type EventKind uint8

const (
	Click EventKind = iota
	DoubleClick
	Enter
	Move
	Leave
)

type Button uint8

const (
	Left Button = iota
	Right
	Middle
)

type ButtonState uint8

const (
	Down ButtonState = iota
	Up
)

// Event is a pointer event on the tray icon.
type Event struct {
	Kind   EventKind
	Button Button
	State  ButtonState
}

// IsActivation reports whether ev is a completed left click, the only
// icon event that brings the window forward.
func IsActivation(ev Event) bool {
	return ev.Kind == Click && ev.Button == Left && ev.State == Up
}
