package form

import "go.uber.org/zap"

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient, user facing message about a submission.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives submission outcomes.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls fn.
func (fn NotifierFunc) Notify(n Notification) {
	if fn != nil {
		fn(n)
	}
}

// LogNotifier writes notifications to logger.
func LogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NotifierFunc(func(n Notification) {
		switch n.Level {
		case LevelError:
			logger.Error(n.Message, zap.String("level", string(n.Level)))
		default:
			logger.Info(n.Message, zap.String("level", string(n.Level)))
		}
	})
}
