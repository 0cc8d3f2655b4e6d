package hooter

import (
	"maps"
	"slices"
	"time"

	"github.com/saylorsolutions/hooter/engine"
)

type Mode = engine.Mode

const (
	ModeAuto  = engine.ModeAuto
	ModeAsIs  = engine.ModeAsIs
	ModeSync  = engine.ModeSync
	ModeAsync = engine.ModeAsync
)

// ParseMode validates s as a [Mode]. An empty string is [ModeAuto].
func ParseMode(s string) (Mode, error) {
	m, err := engine.ParseMode(s)
	if err != nil {
		return "", validationError("%v", err)
	}
	return m, nil
}

// EventDescriptor declares an event name ahead of time, along with the mode its handlers run in.
type EventDescriptor struct {
	Name string
	Mode Mode
	Tags []string
}

// UserEvent fires an event with extra metadata that handlers can read with [Event.Field].
// If Callback is set, it runs as a final plain or coroutine handler for this dispatch only.
type UserEvent struct {
	Name     string
	Fields   map[string]any
	Callback any
}

// Event is a single dispatch of an event name.
// It's created for each toot and is never modified afterward.
type Event struct {
	id       string
	name     string
	mode     Mode
	tags     []string
	args     []any
	fields   map[string]any
	callback *Handler
	owner    any
	parent   *Event
	time     time.Time
}

// ID uniquely identifies this dispatch.
func (e *Event) ID() string {
	return e.id
}

func (e *Event) Name() string {
	return e.name
}

// Mode is the declared mode of the event, or [ModeAuto] if it wasn't registered.
func (e *Event) Mode() Mode {
	return e.mode
}

// Tags are the tags the event was registered with.
func (e *Event) Tags() []string {
	return slices.Clone(e.tags)
}

// Args returns a copy of the arguments the event was tooted with.
func (e *Event) Args() []any {
	return slices.Clone(e.args)
}

// Field returns user metadata attached with [UserEvent].
func (e *Event) Field(key string) (any, bool) {
	val, ok := e.fields[key]
	return val, ok
}

func (e *Event) Fields() map[string]any {
	return maps.Clone(e.fields)
}

// Callback is the one-shot handler given when tooting, or nil.
func (e *Event) Callback() *Handler {
	return e.callback
}

// Owner identifies the [Scope] the event was tooted through, or nil if it came straight from a [Dispatcher].
func (e *Event) Owner() any {
	return e.owner
}

// Parent is the event whose handler tooted this one, or nil for a top level dispatch.
func (e *Event) Parent() *Event {
	return e.parent
}

// Time is when the event was created.
func (e *Event) Time() time.Time {
	return e.time
}

func (e *Event) String() string {
	return e.name
}
