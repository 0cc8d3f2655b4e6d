/*
Package hooter is an in-process event dispatcher with wildcard subscriptions, dependency-ordered handlers, and coroutine handlers driven by effects.

Handlers are hooked to patterns of dot-separated event names, where "*" matches one segment and "**" matches any number of segments.
When an event is tooted, every handler with a matching pattern runs, one at a time, in an order derived from the tags each handler declares it must run before or after.
Handlers hooked with [Dispatcher.HookStart] run before everything else, and those hooked with [Dispatcher.HookEnd] run after everything else, with later registrations running first.

A handler is either a plain [HandlerFunc] or a [CoroutineFunc].
Coroutines can yield effects to toot nested events ([Toot]), hook more handlers ([Hook]), run work in the background ([Fork]), wait for values ([Await]), take over the rest of the chain ([Next]), or fail it ([Throw]).

	d, err := hooter.New()
	if err != nil {
		return err
	}
	_, err = d.Hook("user.*", func(ctx context.Context, ev *hooter.Event, args []any) (any, error) {
		fmt.Println("saw", ev.Name())
		return nil, nil
	})
	if err != nil {
		return err
	}
	_, err = d.Toot(ctx, "user.login", "alice")

A [Scope] created with [Dispatcher.Bind] shares the dispatcher's handlers but stamps an owner on everything registered or tooted through it, and can restrict which events it may toot.
*/
package hooter
