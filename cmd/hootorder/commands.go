package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	flag "github.com/spf13/pflag"

	"github.com/saylorsolutions/hooter"
	"github.com/saylorsolutions/hooter/cli"
	"github.com/saylorsolutions/hooter/env"
	"github.com/saylorsolutions/hooter/order"
	"github.com/saylorsolutions/hooter/wildcard"
)

const (
	envPlan     = "HOOTORDER_PLAN"
	envLogLevel = "HOOTORDER_LOG_LEVEL"
	envVerbose  = "HOOTORDER_VERBOSE"
	envMaxDepth = "HOOTORDER_MAX_DEPTH"
)

var ErrUnresolved = errors.New("unresolvable handler order")

// newTool builds the command tree. Results are printed to out, logs are written to logs.
func newTool(out, logs io.Writer) *cli.CommandSet {
	tool := cli.NewCommandSet("hootorder")
	tool.Printer().Redirect(out)
	t := &app{logs: logs}

	resolve := tool.AddCommand("resolve", "Prints the order handlers run in for an event", "r").
		Usage("--event NAME [FLAGS]")
	t.planFlags(resolve.Flags())
	resolve.Flags().String("event", "", "Event name or pattern to resolve")
	resolve.Flags().Bool("explain", false, "Also print the ordering constraints derived from tags")
	resolve.Does(t.resolve)

	check := tool.AddCommand("check", "Resolves every key in the plan, and fails if any can't be ordered").
		Usage("[FLAGS]")
	t.planFlags(check.Flags())
	check.Does(t.check)

	fire := tool.AddCommand("fire", "Dispatches an event with recording handlers, and prints what ran", "f").
		Usage("--event NAME [FLAGS] [ARGS...]")
	t.planFlags(fire.Flags())
	fire.Flags().String("event", "", "Event name to fire")
	fire.Flags().Int("max-depth", env.Int(envMaxDepth, 0), "Limit on nested dispatch depth, or 0 for none (env "+envMaxDepth+")")
	fire.Does(t.fire)

	return tool
}

type app struct {
	logs io.Writer
}

func (t *app) planFlags(flags *flag.FlagSet) {
	flags.StringP("plan", "p", env.Val(envPlan, "hootorder.yaml"), "Plan file (env "+envPlan+")")
	flags.String("log-level", "", "Log level: debug, info, warn or error (env "+envLogLevel+")")
	flags.String("log-file", "", "Also write JSON logs to this file")
	flags.BoolP("verbose", "v", env.Bool(envVerbose, false), "Log at debug level (env "+envVerbose+")")
}

// setup reads the plan and builds a recording dispatcher from it.
func (t *app) setup(flags *flag.FlagSet, opts ...hooter.Option) (*Plan, *Run, func(), error) {
	level := env.Level(envLogLevel, slog.LevelWarn)
	if raw := cli.MustGet(flags.GetString("log-level")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, nil, nil, cli.NewUsageError("invalid log level %q", raw)
		}
	}
	if cli.MustGet(flags.GetBool("verbose")) {
		level = slog.LevelDebug
	}
	var (
		file    io.Writer
		cleanup = func() {}
	)
	if path := cli.MustGet(flags.GetString("log-file")); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, nil, err
		}
		file = f
		cleanup = func() {
			_ = f.Close()
		}
	}
	logger := newLogger(t.logs, file, level)

	path := cli.MustGet(flags.GetString("plan"))
	plan, err := ReadPlan(path)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	logger.Debug("Loaded plan", "path", path, "events", len(plan.Events), "handlers", len(plan.Handlers))
	run, err := plan.Build(append([]hooter.Option{hooter.WithLogger(logger)}, opts...)...)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return plan, run, cleanup, nil
}

func eventFlag(flags *flag.FlagSet) (string, error) {
	event := cli.MustGet(flags.GetString("event"))
	if event == "" {
		return "", cli.NewUsageError("--event is required")
	}
	if !wildcard.Valid(event) {
		return "", cli.NewUsageError("invalid event name %q", event)
	}
	return event, nil
}

func (t *app) resolve(_ context.Context, flags *flag.FlagSet, p *cli.Printer) error {
	event, err := eventFlag(flags)
	if err != nil {
		return err
	}
	_, run, cleanup, err := t.setup(flags)
	if err != nil {
		return err
	}
	defer cleanup()

	handlers, err := run.Dispatcher.Handlers(event)
	if err != nil {
		return err
	}
	rows := make([][]string, len(handlers))
	for i, h := range handlers {
		rows[i] = []string{h.Name(), h.Key(), h.Priority().String(), h.Timing().String()}
	}
	printRows(p, rows)
	if !cli.MustGet(flags.GetBool("explain")) {
		return nil
	}

	var matching []*hooter.Handler
	for _, h := range run.Handlers {
		if wildcard.Overlaps(event, h.Key()) {
			matching = append(matching, h)
		}
	}
	edges, err := order.Constraints(matching)
	if err != nil {
		return err
	}
	p.Println()
	p.Printf("%d constraints\n", len(edges))
	rows = make([][]string, len(edges))
	for i, edge := range edges {
		rows[i] = []string{matching[edge.Before].Name(), "before", matching[edge.After].Name()}
	}
	printRows(p, rows)
	return nil
}

func (t *app) check(_ context.Context, flags *flag.FlagSet, p *cli.Printer) error {
	plan, run, cleanup, err := t.setup(flags)
	if err != nil {
		return err
	}
	defer cleanup()

	var (
		keys   = plan.Keys()
		failed int
		rows   = make([][]string, 0, len(keys))
	)
	for _, key := range keys {
		handlers, err := run.Dispatcher.Handlers(key)
		if err != nil {
			failed++
			rows = append(rows, []string{"FAIL", key, err.Error()})
			continue
		}
		rows = append(rows, []string{"ok", key, fmt.Sprintf("%d handlers", len(handlers))})
	}
	printRows(p, rows)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d keys", ErrUnresolved, failed, len(keys))
	}
	return nil
}

func (t *app) fire(ctx context.Context, flags *flag.FlagSet, p *cli.Printer) error {
	event, err := eventFlag(flags)
	if err != nil {
		return err
	}
	_, run, cleanup, err := t.setup(flags, hooter.WithMaxDepth(cli.MustGet(flags.GetInt("max-depth"))))
	if err != nil {
		return err
	}
	defer cleanup()

	in := make([]any, flags.NArg())
	for i, arg := range flags.Args() {
		in[i] = arg
	}
	result, err := run.Dispatcher.Toot(ctx, event, in...)
	calls := run.Calls()
	rows := make([][]string, len(calls))
	for i, call := range calls {
		rows[i] = []string{call.Handler, call.Key, formatArgs(call.Args)}
	}
	printRows(p, rows)
	if err != nil {
		return err
	}
	p.Printf("result: %v\n", result)
	return nil
}

func formatArgs(in []any) string {
	parts := make([]string, len(in))
	for i, arg := range in {
		parts[i] = fmt.Sprint(arg)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// printRows numbers rows, aligning columns on a terminal and separating them with tabs otherwise.
func printRows(p *cli.Printer, rows [][]string) {
	if !p.IsTerminal() {
		for i, row := range rows {
			p.Printf("%d\t%s\n", i+1, strings.Join(row, "\t"))
		}
		return
	}
	w := tabwriter.NewWriter(p, 0, 4, 2, ' ', 0)
	for i, row := range rows {
		_, _ = fmt.Fprintf(w, "%d.\t%s\n", i+1, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}
