package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/saylorsolutions/hooter"
	"github.com/saylorsolutions/hooter/args"
)

var (
	ErrInvalidPlan = errors.New("invalid plan")
)

// Plan declares events and handlers to be resolved or fired without writing any handler code.
type Plan struct {
	Events   []EventSpec   `yaml:"events"`
	Handlers []HandlerSpec `yaml:"handlers"`
}

type EventSpec struct {
	Name string   `yaml:"name"`
	Mode string   `yaml:"mode"`
	Tags []string `yaml:"tags"`
}

type HandlerSpec struct {
	Name     string   `yaml:"name"`
	Key      string   `yaml:"key"`
	Priority string   `yaml:"priority"`
	Timing   string   `yaml:"timing"`
	Tags     []string `yaml:"tags"`
	Before   []string `yaml:"before"`
	After    []string `yaml:"after"`
	// Args is the number of string arguments the handler requires when fired.
	Args int `yaml:"args"`
}

// LoadPlan decodes a YAML plan. Unknown fields are rejected.
func LoadPlan(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	plan := new(Plan)
	if err := dec.Decode(plan); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPlan, err)
	}
	return plan, nil
}

func ReadPlan(path string) (*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadPlan(f)
}

// Call is a recorded handler invocation.
type Call struct {
	Handler string
	Key     string
	Event   string
	Args    []any
}

// Run is a dispatcher built from a [Plan], with handlers that record their calls.
type Run struct {
	Dispatcher *hooter.Dispatcher
	// Handlers are in plan order.
	Handlers []*hooter.Handler

	mux   sync.Mutex
	calls []Call
}

// Build registers the plan's events and handlers with a new dispatcher.
func (p *Plan) Build(opts ...hooter.Option) (*Run, error) {
	d, err := hooter.New(opts...)
	if err != nil {
		return nil, err
	}
	run := &Run{Dispatcher: d}
	for i, ev := range p.Events {
		mode, err := hooter.ParseMode(ev.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: event %d: %w", ErrInvalidPlan, i+1, err)
		}
		if err := d.RegisterEvent(ev.Name, mode, ev.Tags...); err != nil {
			return nil, fmt.Errorf("%w: event %d: %w", ErrInvalidPlan, i+1, err)
		}
	}
	for i, spec := range p.Handlers {
		h, err := run.hook(i, spec)
		if err != nil {
			return nil, fmt.Errorf("%w: handler %d: %w", ErrInvalidPlan, i+1, err)
		}
		run.Handlers = append(run.Handlers, h)
	}
	return run, nil
}

func (r *Run) hook(i int, spec HandlerSpec) (*hooter.Handler, error) {
	priority, err := hooter.ParsePriority(spec.Priority)
	if err != nil {
		return nil, err
	}
	timing, err := hooter.ParseTiming(spec.Timing)
	if err != nil {
		return nil, err
	}
	if spec.Args < 0 {
		return nil, fmt.Errorf("negative args %d", spec.Args)
	}
	name := spec.Name
	if name == "" {
		name = fmt.Sprintf("%s#%d", spec.Key, i+1)
	}
	return r.Dispatcher.Hook(spec.Key, r.recorder(name, spec, timing),
		hooter.Named(name),
		hooter.WithPriority(priority),
		hooter.WithTiming(timing),
		hooter.WithTags(spec.Tags...),
		hooter.GoesBefore(spec.Before...),
		hooter.GoesAfter(spec.After...),
	)
}

func (r *Run) recorder(name string, spec HandlerSpec, timing hooter.Timing) hooter.HandlerFunc {
	assertions := make([]args.Assertion, spec.Args)
	for i := range assertions {
		assertions[i] = args.IsType[string]()
	}
	check := args.Spec(spec.Args, assertions...)
	return func(_ context.Context, ev *hooter.Event, in []any) (any, error) {
		if err := check(in); err != nil {
			return nil, err
		}
		r.record(Call{Handler: name, Key: spec.Key, Event: ev.Name(), Args: slices.Clone(in)})
		if timing == hooter.TimingPre {
			// Keep the arguments for the rest of the chain.
			return nil, nil
		}
		return name, nil
	}
}

func (r *Run) record(call Call) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns the recorded calls in the order they happened.
func (r *Run) Calls() []Call {
	r.mux.Lock()
	defer r.mux.Unlock()
	return slices.Clone(r.calls)
}

// Keys returns every distinct handler key and event name in the plan, in plan order.
func (p *Plan) Keys() []string {
	var keys []string
	for _, ev := range p.Events {
		keys = append(keys, ev.Name)
	}
	for _, h := range p.Handlers {
		keys = append(keys, h.Key)
	}
	seen := map[string]bool{}
	return slices.DeleteFunc(keys, func(key string) bool {
		if seen[key] {
			return true
		}
		seen[key] = true
		return false
	})
}
