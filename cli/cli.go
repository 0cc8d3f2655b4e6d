package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
)

// CommandFunc is the behavior of a [Command]. Flags are parsed before it's called.
type CommandFunc func(ctx context.Context, flags *flag.FlagSet, printer *Printer) error

// CommandSet is a group of named sub-commands.
type CommandSet struct {
	path     string
	commands map[string]*Command
	aliases  map[string]*Command
	printer  *Printer
}

// NewCommandSet creates the root of a command tree.
// The path is how the tool is invoked, and prefixes every usage string.
func NewCommandSet(path ...string) *CommandSet {
	return &CommandSet{path: strings.Join(path, " "), printer: NewPrinter()}
}

// Printer returns the [Printer] shared by every command in the set.
func (s *CommandSet) Printer() *Printer {
	if s.printer == nil {
		s.printer = NewPrinter()
	}
	return s.printer
}

// AddCommand adds a sub-command. Keys and aliases are matched case-insensitive.
func (s *CommandSet) AddCommand(key, short string, aliases ...string) *Command {
	key = normalize(key)
	cmd := newCommand(key, s.path, short, s.Printer())
	if s.commands == nil {
		s.commands = map[string]*Command{}
	}
	s.commands[key] = cmd
	for _, alias := range aliases {
		alias = normalize(alias)
		if alias == "" {
			continue
		}
		if s.aliases == nil {
			s.aliases = map[string]*Command{}
		}
		s.aliases[alias] = cmd
		cmd.aliases = append(cmd.aliases, alias)
	}
	slices.Sort(cmd.aliases)
	return cmd
}

// Exec runs the sub-command named by the first argument.
func (s *CommandSet) Exec(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no arguments", ErrUnknownCommand)
	}
	cmd, ok := s.lookup(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	return cmd.Exec(ctx, args[1:])
}

func (s *CommandSet) lookup(key string) (*Command, bool) {
	key = normalize(key)
	if cmd, ok := s.commands[key]; ok {
		return cmd, true
	}
	cmd, ok := s.aliases[key]
	return cmd, ok
}

// CommandUsages lists sub-commands and their aliases, sorted by key.
func (s *CommandSet) CommandUsages() string {
	var (
		buf    strings.Builder
		keys   = slices.Sorted(maps.Keys(s.commands))
		labels = make([]string, len(keys))
		width  int
	)
	for i, key := range keys {
		labels[i] = strings.Join(append([]string{key}, s.commands[key].aliases...), ", ")
		width = max(width, len(labels[i]))
	}
	for i, key := range keys {
		fmt.Fprintf(&buf, "  %-*s  %s\n", width, labels[i], s.commands[key].short)
	}
	return buf.String()
}

// Usage is the usage of the whole tool.
func (s *CommandSet) Usage() string {
	return fmt.Sprintf("USAGE:\n%s COMMAND [FLAGS] [ARGS]\n\nCOMMANDS\n%s", s.path, s.CommandUsages())
}

// Command is a runnable node in a command tree.
// It may have sub-commands of its own, which take precedence over arguments.
type Command struct {
	CommandSet
	key     string
	short   string
	usage   string
	aliases []string
	flags   *flag.FlagSet
	exec    CommandFunc
}

func newCommand(key, parent, short string, printer *Printer) *Command {
	path := key
	if parent != "" {
		path = parent + " " + key
	}
	flags := flag.NewFlagSet(key, flag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.SetOutput(printer)
	flags.BoolP("help", "h", false, "Prints this usage information")
	cmd := &Command{
		CommandSet: CommandSet{path: path, printer: printer},
		key:        key,
		short:      short,
		flags:      flags,
	}
	flags.Usage = func() {
		printer.Print(cmd.Help())
	}
	cmd.exec = func(context.Context, *flag.FlagSet, *Printer) error {
		flags.Usage()
		return nil
	}
	return cmd
}

func normalize(key string) string {
	return strings.Join(strings.Fields(strings.ToLower(key)), "")
}

// Key is the name the command was added with.
func (c *Command) Key() string {
	return c.key
}

// Path is the full invocation of the command, including its parents.
func (c *Command) Path() string {
	return c.path
}

func (c *Command) Flags() *flag.FlagSet {
	return c.flags
}

// Does sets the behavior of the command. By default, it prints its usage.
func (c *Command) Does(fn CommandFunc) *Command {
	if fn != nil {
		c.exec = fn
	}
	return c
}

// Usage sets the invocation hint shown after the command path, like "--event NAME [ARGS...]".
func (c *Command) Usage(format string, args ...any) *Command {
	c.usage = fmt.Sprintf(format, args...)
	return c
}

// Help renders the full usage information of the command.
func (c *Command) Help() string {
	var buf strings.Builder
	buf.WriteString(c.short)
	buf.WriteString("\n\nUSAGE:\n")
	buf.WriteString(c.path)
	if c.usage != "" {
		buf.WriteString(" " + c.usage)
	}
	buf.WriteString("\n\nFLAGS\n")
	buf.WriteString(c.flags.FlagUsages())
	if len(c.commands) > 0 {
		buf.WriteString("\nCOMMANDS\n")
		buf.WriteString(c.CommandUsages())
	}
	return buf.String()
}

// Exec parses flags from args and runs the command, or the sub-command named by the first argument.
// A [UsageError] is printed along with the usage of the command, then returned.
func (c *Command) Exec(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if sub, ok := c.lookup(args[0]); ok {
			return sub.Exec(ctx, args[1:])
		}
	}
	err := c.run(ctx, args)
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		c.printer.Println(err)
		c.printer.Println()
		c.flags.Usage()
	}
	return err
}

func (c *Command) run(ctx context.Context, args []string) error {
	if err := c.flags.Parse(args); err != nil {
		return NewUsageError("%w", err)
	}
	if MustGet(c.flags.GetBool("help")) {
		c.flags.Usage()
		return nil
	}
	return c.exec(ctx, c.flags, c.printer)
}
