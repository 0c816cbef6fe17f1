package fetch

// Level is the severity of a user-visible notification.
type Level string

// LevelError marks a failed fetch.
const LevelError Level = "error"

// Notification is a dismissible message for the user (toast/banner).
type Notification struct {
	Level   Level
	Screen  string
	Message string
}

// Notifier receives notifications emitted by a fetch.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

// NopNotifier discards every notification.
func NopNotifier() Notifier { return nopNotifier{} }
