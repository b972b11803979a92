package core

// Logger is the application-wide logging service.
// The variadic args may carry an error, a map[string]interface{} of extras and a Subject.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
