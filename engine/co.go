package engine

// Co is the handle a coroutine body uses to yield effects.
// It must only be used by the body it was given to, and never after the body returns.
type Co struct {
	yield   func(Effect) bool
	resume  any
	err     error
	mode    Mode
	aborted bool
}

// Yield suspends the coroutine until the engine has performed eff, then returns the effect's result.
// If the chain was terminated while suspended, [ErrAborted] is returned and the body should return promptly.
func (c *Co) Yield(eff Effect) (any, error) {
	if c.aborted || c.yield == nil {
		return nil, ErrAborted
	}
	c.resume, c.err = nil, nil
	if !c.yield(eff) {
		c.aborted = true
		return nil, ErrAborted
	}
	return c.resume, c.err
}

// Mode is the resolved mode of the chain the coroutine is running in.
func (c *Co) Mode() Mode {
	return c.mode
}
