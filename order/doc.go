/*
Package order computes a deterministic execution order for items that declare tag-based dependencies.

Every [Item] carries the [Global] tag along with its own tags, and may list tags it must precede ([Item.GoesBefore]) or follow ([Item.GoesAfter]).
[Sort] derives precedence edges from those declarations, rejects anything that can't be satisfied with a [CycleError], and returns the items in topological order.
Items with no declarations keep their original relative order.

Declaring that an item should precede its own tag makes it one of the "first" members of that tag, while declaring that it should follow its own tag makes it one of the "last".
Multiple "first" members keep their natural order, and multiple "last" members are reversed, so the last registered runs first among them.
*/
package order
