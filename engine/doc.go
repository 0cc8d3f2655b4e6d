/*
Package engine runs ordered chains of steps under an execution mode, interpreting the effects that coroutine steps yield.

A step's [Routine] is either plain, a function that runs to completion, or a coroutine.
A coroutine receives a [*Co] and suspends by calling [Co.Yield] with an [Effect].
The engine performs the effect and resumes the coroutine with the effect's value and error.
Coroutine bodies run inside [iter.Pull], so the engine loop is a trampoline over explicit frame states ([StatusRunning], [StatusSuspended], [StatusCompleted], [StatusFailed]).

Effects are looked up by [Effect.Effect] in a handler map.
The built-in kinds are [KindNext] (run the rest of the chain), [KindAwait] (wait for an [Awaitable]), and [KindThrow] (fail the chain).
Other kinds are supplied through [Config.Effects]. An effect with no handler fails the chain with an [*UnsupportedEffectError].

An effect handler may return an error wrapped with [Fatal] to terminate the yielding step.
Any other error is delivered into the coroutine, which may recover from it.
*/
package engine
