package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saylorsolutions/hooter"
	"github.com/saylorsolutions/hooter/args"
)

const storePlan = `
handlers:
  - {name: A foo, key: foo}
  - {name: B bar, key: bar}
  - {name: B start foo, key: foo, priority: start}
  - {name: B end bar.baz, key: bar.baz, priority: end}
  - {name: A baz, key: baz}
  - {name: "B *.*", key: "*.*"}
`

const firePlan = `
events:
  - {name: app.start, mode: sync}
handlers:
  - {name: validate, key: app.start, timing: pre, args: 1}
  - {name: db, key: app.start, tags: [db]}
  - {name: server, key: app.start, after: [db]}
  - {name: log, key: "app.*", priority: end, timing: post}
`

func loadPlan(t *testing.T, doc string) *Plan {
	t.Helper()
	plan, err := LoadPlan(strings.NewReader(doc))
	require.NoError(t, err)
	return plan
}

func handlerNames(handlers []*hooter.Handler) []string {
	names := make([]string, len(handlers))
	for i, h := range handlers {
		names[i] = h.Name()
	}
	return names
}

func TestLoadPlan(t *testing.T) {
	plan := loadPlan(t, firePlan)
	require.Len(t, plan.Events, 1)
	assert.Equal(t, EventSpec{Name: "app.start", Mode: "sync"}, plan.Events[0])
	require.Len(t, plan.Handlers, 4)
	assert.Equal(t, HandlerSpec{Name: "validate", Key: "app.start", Timing: "pre", Args: 1}, plan.Handlers[0])
	assert.Equal(t, []string{"db"}, plan.Handlers[2].After)

	empty := loadPlan(t, "")
	assert.Empty(t, empty.Handlers)
}

func TestLoadPlan_Invalid(t *testing.T) {
	tests := map[string]string{
		"Unknown field": "handlers:\n  - {name: a, keyy: foo}\n",
		"Wrong type":    "handlers: {name: a}\n",
		"Not YAML":      "handlers: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadPlan(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestPlan_Build(t *testing.T) {
	run, err := loadPlan(t, storePlan).Build()
	require.NoError(t, err)
	assert.Len(t, run.Handlers, 6)

	handlers, err := run.Dispatcher.Handlers("*")
	require.NoError(t, err)
	assert.Equal(t, []string{"B start foo", "A foo", "B bar", "A baz"}, handlerNames(handlers))
	handlers, err = run.Dispatcher.Handlers("bar.*")
	require.NoError(t, err)
	assert.Equal(t, []string{"B *.*", "B end bar.baz"}, handlerNames(handlers))
}

func TestPlan_Build_Invalid(t *testing.T) {
	tests := map[string]string{
		"Bad mode":       "events: [{name: a, mode: later}]",
		"Duplicate":      "events: [{name: a}, {name: a}]",
		"Bad priority":   "handlers: [{key: a, priority: middle}]",
		"Bad timing":     "handlers: [{key: a, timing: whenever}]",
		"Empty key":      "handlers: [{name: a}]",
		"Negative args":  "handlers: [{key: a, args: -1}]",
		"Empty tag":      `handlers: [{key: a, tags: [""]}]`,
		"Bad event name": "events: [{name: a..b}]",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := loadPlan(t, doc).Build()
			assert.ErrorIs(t, err, ErrInvalidPlan)
		})
	}
}

func TestRun_Fire(t *testing.T) {
	run, err := loadPlan(t, firePlan).Build()
	require.NoError(t, err)
	assert.Equal(t, "server", run.Handlers[2].Name())

	result, err := run.Dispatcher.Toot(context.Background(), "app.start", "hello")
	require.NoError(t, err)
	assert.Equal(t, "log", result)
	assert.Equal(t, []Call{
		{Handler: "validate", Key: "app.start", Event: "app.start", Args: []any{"hello"}},
		{Handler: "db", Key: "app.start", Event: "app.start", Args: []any{"hello"}},
		{Handler: "server", Key: "app.start", Event: "app.start", Args: []any{"hello"}},
		{Handler: "log", Key: "app.*", Event: "app.start", Args: []any{nil}},
	}, run.Calls())

	_, err = run.Dispatcher.Toot(context.Background(), "app.start")
	assert.ErrorIs(t, err, args.ErrNotEnough)
	_, err = run.Dispatcher.Toot(context.Background(), "app.start", 5)
	assert.ErrorIs(t, err, args.ErrUnexpectedType)
}

func TestRun_DefaultNames(t *testing.T) {
	run, err := loadPlan(t, "handlers: [{key: foo}, {key: bar}]").Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"foo#1", "bar#2"}, handlerNames(run.Handlers))
}

func TestPlan_Keys(t *testing.T) {
	plan := loadPlan(t, firePlan)
	assert.Equal(t, []string{"app.start", "app.*"}, plan.Keys())
}
