package forecast

import "time"

// NotificationKind separates the two error classes shown to the user.
type NotificationKind string

const (
	KindValidation NotificationKind = "validation"
	KindService    NotificationKind = "service"
)

// Notification is a transient message. It is not part of controller state.
type Notification struct {
	Kind    NotificationKind
	Message string
	At      time.Time
}

// Notifier receives transient notifications. Implementations must not call
// back into the controller synchronously.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}
