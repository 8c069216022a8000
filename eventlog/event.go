package eventlog

// Level classifies an Event. Levels are plain strings so they serialize
// cleanly and survive transport through any sink backend.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Severity returns the numeric rank for a level, for backends that want an
// ordinal value instead of a string.
//
// The table is part of the contract with existing batch consumers and is
// kept exactly as they expect it, including warn ranking above error.
// Nothing in this module orders events by severity; batches always flush
// in emission order.
func (l Level) Severity() int {
	switch l {
	case LevelDebug:
		return 0
	case LevelInfo:
		return 1
	case LevelError:
		return 2
	case LevelWarn:
		return 3
	default:
		// Unknown levels rank as info rather than failing; a sink is the
		// wrong place to reject an event that was already accepted.
		return 1
	}
}

// Event is one structured log entry captured while handling a request.
//
// Events are append-only once created: the With helpers return modified
// copies, so an Event value can be shared as a template without the copies
// interfering with each other.
type Event struct {
	Level    Level             `json:"level"`
	Message  string            `json:"message"`
	Tags     []string          `json:"tags,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Debug builds a debug-level event.
func Debug(message string) Event {
	return Event{Level: LevelDebug, Message: message}
}

// Info builds an info-level event.
func Info(message string) Event {
	return Event{Level: LevelInfo, Message: message}
}

// Warn builds a warn-level event.
func Warn(message string) Event {
	return Event{Level: LevelWarn, Message: message}
}

// Error builds an error-level event.
func Error(message string) Event {
	return Event{Level: LevelError, Message: message}
}

// WithTags returns a copy of the event with tags appended.
func (e Event) WithTags(tags ...string) Event {
	e.Tags = append(append([]string(nil), e.Tags...), tags...)
	return e
}

// WithMeta returns a copy of the event with one metadata entry added.
// The metadata map is cloned, never mutated in place.
func (e Event) WithMeta(key, value string) Event {
	meta := make(map[string]string, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	e.Metadata = meta
	return e
}
