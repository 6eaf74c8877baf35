package log

// Hook receives every enabled log event before it is written. Returning true
// marks the event as handled and it is not written to the sub logger's output
type Hook func(header, subLogger, message string) (handled bool)

var hook Hook

// SetHook installs h for all sub loggers, nil removes it. The hook is called
// while the logger's read lock is held and must not reconfigure logging
func SetHook(h Hook) {
	mu.Lock()
	hook = h
	mu.Unlock()
}

