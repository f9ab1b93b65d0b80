package gamification

import "log"

// NotificationType distinguishes the toast styles a presentation layer may
// render.
type NotificationType string

const (
	TypeXPGained NotificationType = "xp-gain"
	TypeLevelUp  NotificationType = "level-up"
	TypeInfo     NotificationType = "info"
)

// Notification is a single user-facing event emitted by the engine.
type Notification struct {
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
}

// Notifier receives engine events. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	log.Printf("[%s] %s", n.Type, n.Message)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(Notification) {}

// Recorder collects notifications for assertions in tests and for the
// notifications feed endpoint.
type Recorder struct {
	Notifications []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.Notifications = append(r.Notifications, n)
}

// OfType returns the recorded notifications matching t.
func (r *Recorder) OfType(t NotificationType) []Notification {
	var out []Notification
	for _, n := range r.Notifications {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
