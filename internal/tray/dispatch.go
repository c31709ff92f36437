package tray

type Handler func()

// Dispatcher maps menu item ids to handlers. Unknown ids are ignored.
type Dispatcher struct {
	handlers map[string]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]Handler)}
}

func (d *Dispatcher) Handle(id string, h Handler) {
	d.handlers[id] = h
}

// Dispatch runs the handler for id and reports whether one was registered.
func (d *Dispatcher) Dispatch(id string) bool {
	h, ok := d.handlers[id]
	if !ok || h == nil {
		return false
	}
	h()
	return true
}

func (d *Dispatcher) Has(id string) bool {
	_, ok := d.handlers[id]
	return ok
}
