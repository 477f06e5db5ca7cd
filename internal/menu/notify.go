package menu

import (
	"context"

	"github.com/dshills/flyout/internal/aim"
	"github.com/dshills/flyout/internal/event"
	"github.com/dshills/flyout/internal/event/topic"
	"github.com/dshills/flyout/internal/logging"
)

// Topics published by BusNotifier.
const (
	TopicRowEnter      topic.Topic = "menu.row.enter"
	TopicRowExit       topic.Topic = "menu.row.exit"
	TopicRowActivate   topic.Topic = "menu.row.activate"
	TopicRowDeactivate topic.Topic = "menu.row.deactivate"
	TopicExit          topic.Topic = "menu.exit"
)

// RowEvent is the payload of every menu.row.* event.
type RowEvent[R comparable] struct {
	MenuID string
	Row    R
}

// ExitEvent is the payload of menu.exit.
type ExitEvent struct {
	MenuID string
}

// BusNotifier publishes engine notifications on an event bus.
type BusNotifier[R comparable] struct {
	bus    *event.Bus
	menuID string
	log    *logging.Logger
}

// NewBusNotifier creates a notifier publishing for menuID.
func NewBusNotifier[R comparable](bus *event.Bus, menuID string, log *logging.Logger) *BusNotifier[R] {
	if log == nil {
		log = logging.Null()
	}
	return &BusNotifier[R]{bus: bus, menuID: menuID, log: log}
}

func (n *BusNotifier[R]) publishRow(t topic.Topic, row R) {
	n.publish(event.NewEvent(t, RowEvent[R]{MenuID: n.menuID, Row: row}, "menu"))
}

func (n *BusNotifier[R]) publish(ev any) {
	if err := n.bus.Publish(context.Background(), ev); err != nil {
		n.log.Warn("publish failed: %v", err)
	}
}

// Enter implements aim.Notifier.
func (n *BusNotifier[R]) Enter(row R) { n.publishRow(TopicRowEnter, row) }

// Exit implements aim.Notifier.
func (n *BusNotifier[R]) Exit(row R) { n.publishRow(TopicRowExit, row) }

// Activate implements aim.Notifier.
func (n *BusNotifier[R]) Activate(row R) { n.publishRow(TopicRowActivate, row) }

// Deactivate implements aim.Notifier.
func (n *BusNotifier[R]) Deactivate(row R) { n.publishRow(TopicRowDeactivate, row) }

// ExitMenu implements aim.Notifier.
func (n *BusNotifier[R]) ExitMenu() {
	n.publish(event.NewEvent(TopicExit, ExitEvent{MenuID: n.menuID}, "menu"))
}

// tee forwards every notification to each notifier in order.
type tee[R comparable] []aim.Notifier[R]

// Tee returns a notifier that forwards to each of notifiers in order.
// Nil notifiers are skipped.
func Tee[R comparable](notifiers ...aim.Notifier[R]) aim.Notifier[R] {
	var t tee[R]
	for _, n := range notifiers {
		if n != nil {
			t = append(t, n)
		}
	}
	return t
}

func (t tee[R]) Enter(row R) {
	for _, n := range t {
		n.Enter(row)
	}
}

func (t tee[R]) Exit(row R) {
	for _, n := range t {
		n.Exit(row)
	}
}

func (t tee[R]) Activate(row R) {
	for _, n := range t {
		n.Activate(row)
	}
}

func (t tee[R]) Deactivate(row R) {
	for _, n := range t {
		n.Deactivate(row)
	}
}

func (t tee[R]) ExitMenu() {
	for _, n := range t {
		n.ExitMenu()
	}
}
