package aim

// Host answers geometry questions for an engine.
// Both methods are called with the engine's lock held and must not call
// back into the engine.
type Host[R comparable] interface {
	// MenuBounds returns the current bounding box of the whole menu.
	MenuBounds() Rect

	// HasSubmenu reports whether row opens a submenu.
	HasSubmenu(row R) bool
}

// HostFuncs adapts two functions to Host.
type HostFuncs[R comparable] struct {
	Bounds  func() Rect
	Submenu func(row R) bool
}

// MenuBounds implements Host. A nil Bounds yields the zero Rect.
func (h HostFuncs[R]) MenuBounds() Rect {
	if h.Bounds == nil {
		return Rect{}
	}
	return h.Bounds()
}

// HasSubmenu implements Host. A nil Submenu treats every row as a submenu row.
func (h HostFuncs[R]) HasSubmenu(row R) bool {
	if h.Submenu == nil {
		return true
	}
	return h.Submenu(row)
}

// Notifier receives the engine's notifications.
//
// Enter and Exit are informational. Activate and Deactivate are commands: the
// host shows or hides the row's submenu. Notifications are delivered after
// the engine releases its lock, so implementations may call back into it.
type Notifier[R comparable] interface {
	Enter(row R)
	Exit(row R)
	Activate(row R)
	Deactivate(row R)
	ExitMenu()
}

// NotifierFuncs adapts optional functions to Notifier. Nil fields are skipped.
type NotifierFuncs[R comparable] struct {
	OnEnter      func(row R)
	OnExit       func(row R)
	OnActivate   func(row R)
	OnDeactivate func(row R)
	OnExitMenu   func()
}

func (n NotifierFuncs[R]) Enter(row R) {
	if n.OnEnter != nil {
		n.OnEnter(row)
	}
}

func (n NotifierFuncs[R]) Exit(row R) {
	if n.OnExit != nil {
		n.OnExit(row)
	}
}

func (n NotifierFuncs[R]) Activate(row R) {
	if n.OnActivate != nil {
		n.OnActivate(row)
	}
}

func (n NotifierFuncs[R]) Deactivate(row R) {
	if n.OnDeactivate != nil {
		n.OnDeactivate(row)
	}
}

func (n NotifierFuncs[R]) ExitMenu() {
	if n.OnExitMenu != nil {
		n.OnExitMenu()
	}
}
