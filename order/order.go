package order

import (
	"errors"
	"fmt"
	"strings"
)

// Global is the tag implicitly carried by every item.
const Global = "**"

var (
	ErrUnresolvable = errors.New("unresolvable ordering")
)

// Item is anything that can be ordered by tag dependencies.
type Item interface {
	// Tags are the explicit tags of the item, not including Global.
	Tags() []string
	// GoesBefore lists tags whose members this item must precede.
	GoesBefore() []string
	// GoesAfter lists tags whose members this item must follow.
	GoesAfter() []string
}

// Edge is a derived precedence constraint between two item positions.
type Edge struct {
	Before int
	After  int
}

// CycleError is returned when the declared dependencies can't be satisfied.
// Items lists the items on the conflict in precedence order.
// Tag is set when a single item lists the same tag in both directions.
type CycleError[T any] struct {
	Items []T
	Tag   string
}

func (e *CycleError[T]) Error() string {
	if e.Tag != "" && len(e.Items) > 0 {
		return fmt.Sprintf("%s: %v must both precede and follow tag %q", ErrUnresolvable, e.Items[0], e.Tag)
	}
	names := make([]string, 0, len(e.Items)+1)
	for _, item := range e.Items {
		names = append(names, fmt.Sprint(item))
	}
	if len(e.Items) > 0 {
		names = append(names, fmt.Sprint(e.Items[0]))
	}
	return fmt.Sprintf("%s: cycle %s", ErrUnresolvable, strings.Join(names, " -> "))
}

func (e *CycleError[T]) Is(target error) bool {
	return target == ErrUnresolvable
}

// Sort returns items in dependency order.
// The input slice is not modified. A [*CycleError] is returned if the dependencies are contradictory.
func Sort[T Item](items []T) ([]T, error) {
	g, err := build(items)
	if err != nil {
		return nil, err
	}
	positions := g.walk()
	sorted := make([]T, len(positions))
	for i, pos := range positions {
		sorted[i] = items[pos]
	}
	return sorted, nil
}

// Constraints returns the precedence edges derived from items, in the order they were derived.
// Repeated constraints are reported once.
func Constraints[T Item](items []T) ([]Edge, error) {
	g, err := build(items)
	if err != nil {
		return nil, err
	}
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges, nil
}

func build[T Item](items []T) (*graph, error) {
	idx, err := indexItems(items)
	if err != nil {
		return nil, err
	}
	g := newGraph(len(items))
	for i, item := range items {
		g.vertex(i)
		for _, other := range idx.resolve(i, item.GoesBefore(), precede) {
			if cycle := g.addEdge(i, other); cycle != nil {
				return nil, cycleError(items, cycle)
			}
		}
		for _, other := range idx.resolve(i, item.GoesAfter(), follow) {
			if cycle := g.addEdge(other, i); cycle != nil {
				return nil, cycleError(items, cycle)
			}
		}
	}
	return g, nil
}

func cycleError[T Item](items []T, positions []int) error {
	cycle := make([]T, len(positions))
	for i, pos := range positions {
		cycle[i] = items[pos]
	}
	return &CycleError[T]{Items: cycle}
}
