/*
Package wildcard matches dot-separated event names against patterns.

A pattern is split into segments on [Separator]. The [Single] wildcard matches exactly one segment, and the [Multi] wildcard matches zero or more segments.
A pattern without wildcards only matches an identical name.

	wildcard.Match("user.*", "user.login")      // true
	wildcard.Match("user.*", "user.login.fail") // false
	wildcard.Match("user.**", "user")           // true
	wildcard.Match("**", "anything.at.all")     // true
*/
package wildcard
