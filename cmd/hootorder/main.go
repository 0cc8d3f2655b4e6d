// Command hootorder resolves and dry-runs the handler order declared in a YAML plan.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/saylorsolutions/hooter/cli"
)

func main() {
	os.Exit(execute(os.Args[1:]))
}

func execute(argv []string) int {
	ctx, stop := cli.InterruptContext(context.Background())
	defer stop()

	tool := newTool(os.Stdout, os.Stderr)
	if len(argv) == 0 {
		tool.Printer().Print(tool.Usage())
		return 2
	}
	if err := tool.Exec(ctx, argv); err != nil {
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			return 2
		}
		_, _ = fmt.Fprintln(os.Stderr, "hootorder:", err)
		return 1
	}
	return 0
}
