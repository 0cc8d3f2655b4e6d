/*
Package args helps handlers make assertions about the positional arguments an event was fired with.

	var (
		user string
		attempts int
	)
	err := args.Spec(1,
		args.Store(&user),
		args.Optional(args.Store(&attempts)),
	)(ev.Args())
*/
package args
