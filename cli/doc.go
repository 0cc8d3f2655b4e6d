/*
Package cli structures a command line tool as a tree of sub-commands.

  - User-visible output goes to STDERR by default, through a configurable [Printer].
  - Flags are POSIX style, using [pflag].
  - Flags are not interspersed with arguments, so everything after the first argument is passed through untouched.
  - Each command has its own flags. There are no global flags.

# Invocation

	CLI_NAME [SUB-COMMAND...] [FLAGS...] [ARGS...]

Every command gets '-h' and '--help' flags that print its usage.
Returning a [UsageError] from a command prints the usage of that command along with the error.

[pflag]: https://github.com/spf13/pflag
*/
package cli
