package domain

// Severity classifies a Notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a fire-and-forget message for the user.
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier accepts notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }
