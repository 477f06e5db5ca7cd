// Package aim implements menu intent detection for flyout submenus.
//
// When a submenu is open and the user moves the pointer toward it, the path
// usually crosses sibling rows. Opening each row as it is hovered makes the
// submenu flicker and switch away before the pointer arrives. The Engine
// watches a short pointer history and delays activation while the pointer is
// travelling into the wedge between its position and the submenu side of the
// menu.
//
// # Heuristic
//
// The menu's bounding box is padded on top and bottom by Tolerance. For the
// configured Direction two padded corners bound the submenu side; for
// DirectionRight they are the upper-right and lower-right corners. The engine
// compares the slope from the newest sample to each corner with the slope
// from the oldest retained sample. If the angle narrows toward both corners
// the pointer is aiming at the submenu: the engine waits DefaultDelay and
// checks again with fresher samples. A pointer that stops moving, that was
// outside the menu a moment ago, or whose geometry produces non-finite
// slopes, activates immediately.
//
// # Usage
//
//	engine := aim.New[int](aim.DefaultConfig(), host, notifier)
//	engine.RecordPointer(aim.Point{X: 40, Y: 12})
//	engine.RowEnter(3)
//
// The host feeds pointer samples and row topology events; the engine calls
// back through Notifier with Activate and Deactivate commands.
//
// # Timers
//
// Two timer slots exist: the re-check slot retries a delayed decision, and the
// open-delay slot holds the ActivationDelay grace period before the first
// submenu of a session opens. Each slot holds at most one live timer. Any row
// enter or menu leave cancels the re-check slot, so a delayed decision for a
// row the pointer has left never fires.
package aim
