package order

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type item struct {
	name   string
	tags   []string
	before []string
	after  []string
}

func (i *item) Tags() []string       { return i.tags }
func (i *item) GoesBefore() []string { return i.before }
func (i *item) GoesAfter() []string  { return i.after }
func (i *item) String() string       { return i.name }

func names(items []*item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.name
	}
	return out
}

func tags(t ...string) []string { return t }

func sortNames(t *testing.T, items ...*item) []string {
	t.Helper()
	sorted, err := Sort(items)
	require.NoError(t, err)
	return names(sorted)
}

func TestSort_NoDeclarations(t *testing.T) {
	got := sortNames(t,
		&item{name: "A"},
		&item{name: "B", tags: tags("x")},
		&item{name: "C"},
	)
	assert.Equal(t, []string{"A", "B", "C"}, got)
}

func TestSort_Empty(t *testing.T) {
	sorted, err := Sort([]*item{})
	require.NoError(t, err)
	assert.NotNil(t, sorted)
	assert.Len(t, sorted, 0)
}

func TestSort_InputUnchanged(t *testing.T) {
	items := []*item{
		{name: "A", tags: tags("A"), after: tags("B")},
		{name: "B", tags: tags("B")},
	}
	_, err := Sort(items)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(items))
}

func TestSort_Dependencies(t *testing.T) {
	tests := map[string]struct {
		items []*item
		want  []string
	}{
		"Simple": {
			items: []*item{
				{name: "A", tags: tags("A"), after: tags("B")},
				{name: "B", tags: tags("B")},
				{name: "C", before: tags("B")},
			},
			want: []string{"C", "B", "A"},
		},
		"Complex": {
			items: []*item{
				{name: "D", tags: tags("D"), after: tags("F", "H", "G"), before: tags("E")},
				{name: "E", tags: tags("E")},
				{name: "F", tags: tags("F"), before: tags("H")},
				{name: "G", tags: tags("G"), before: tags("H", "F")},
				{name: "H", tags: tags("H")},
			},
			want: []string{"G", "F", "H", "D", "E"},
		},
		"Mutual declaration": {
			items: []*item{
				{name: "A", tags: tags("A"), after: tags("B")},
				{name: "B", tags: tags("B"), before: tags("A")},
				{name: "C"},
			},
			want: []string{"B", "A", "C"},
		},
		"Mutual chain": {
			items: []*item{
				{name: "D", tags: tags("D"), after: tags("E")},
				{name: "E", tags: tags("E"), after: tags("F"), before: tags("D")},
				{name: "F", tags: tags("F"), before: tags("E")},
			},
			want: []string{"F", "E", "D"},
		},
		"First of own tag": {
			items: []*item{
				{name: "A1", tags: tags("A")},
				{name: "A2", tags: tags("A"), before: tags("A")},
				{name: "A3", tags: tags("A")},
			},
			want: []string{"A2", "A1", "A3"},
		},
		"Last of own tag": {
			items: []*item{
				{name: "A1", tags: tags("A")},
				{name: "A2", tags: tags("A"), after: tags("A")},
				{name: "A3", tags: tags("A")},
			},
			want: []string{"A1", "A3", "A2"},
		},
		"Shared tag both ends": {
			items: []*item{
				{name: "A", tags: tags("A", "Q"), after: tags("Q")},
				{name: "B", tags: tags("B", "Q"), before: tags("Q")},
				{name: "C", tags: tags("C", "Q")},
			},
			want: []string{"B", "C", "A"},
		},
		"Shared tag with direct reference": {
			items: []*item{
				{name: "A", tags: tags("A", "Q"), after: tags("B")},
				{name: "B", tags: tags("B", "Q"), before: tags("Q")},
				{name: "C"},
			},
			want: []string{"B", "A", "C"},
		},
		"Shared tag mixed": {
			items: []*item{
				{name: "D", tags: tags("D", "Q"), after: tags("Q")},
				{name: "E", tags: tags("E", "Q"), before: tags("Q", "F")},
				{name: "F", tags: tags("F", "Q"), before: tags("D"), after: tags("E")},
			},
			want: []string{"E", "F", "D"},
		},
		"Many firsts keep order": {
			items: []*item{
				{name: "A1", tags: tags("A"), before: tags("A")},
				{name: "A2", tags: tags("A"), before: tags("A")},
				{name: "A3", tags: tags("A")},
			},
			want: []string{"A1", "A2", "A3"},
		},
		"Many lasts reverse": {
			items: []*item{
				{name: "A1", tags: tags("A"), after: tags("A")},
				{name: "A2", tags: tags("A"), after: tags("A")},
				{name: "A3", tags: tags("A")},
			},
			want: []string{"A3", "A2", "A1"},
		},
		"Global first and last": {
			items: []*item{
				{name: "A", tags: tags("A"), after: tags(Global)},
				{name: "B", tags: tags("B")},
				{name: "C", before: tags(Global)},
			},
			want: []string{"C", "B", "A"},
		},
		"Global lasts reverse": {
			items: []*item{
				{name: "E1", after: tags(Global)},
				{name: "N"},
				{name: "E2", after: tags(Global)},
				{name: "S1", before: tags(Global)},
				{name: "S2", before: tags(Global)},
			},
			want: []string{"S1", "S2", "N", "E2", "E1"},
		},
		"Global firsts by tag": {
			items: []*item{
				{name: "A1", tags: tags("A")},
				{name: "A2", tags: tags("A"), before: tags(Global)},
				{name: "A3", tags: tags("A")},
			},
			want: []string{"A2", "A1", "A3"},
		},
		"Unknown tag": {
			items: []*item{
				{name: "A", after: tags("missing")},
				{name: "B", before: tags("missing")},
			},
			want: []string{"A", "B"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, sortNames(t, tc.items...))
		})
	}
}

func TestSort_Unresolvable(t *testing.T) {
	tests := map[string][]*item{
		"Both sides of shared tag": {
			{name: "A", tags: tags("A", "Q"), before: tags("Q"), after: tags("Q")},
			{name: "B", tags: tags("B", "Q")},
		},
		"Both sides without other members": {
			{name: "A", tags: tags("A"), before: tags("A"), after: tags("A")},
		},
		"Both sides of global": {
			{name: "A", before: tags(Global), after: tags(Global)},
			{name: "B"},
		},
		"Both sides of other tag": {
			{name: "A", tags: tags("A"), before: tags("B"), after: tags("B")},
			{name: "B", tags: tags("B")},
		},
		"Direct cycle": {
			{name: "A", tags: tags("A"), after: tags("C")},
			{name: "B", tags: tags("B")},
			{name: "C", tags: tags("C"), after: tags("A")},
		},
		"Shared tags follow each other": {
			{name: "A", tags: tags("Q", "W"), after: tags("Q")},
			{name: "B", tags: tags("Q", "W")},
			{name: "C", tags: tags("Q", "W"), after: tags("W")},
		},
		"Last member precedes follower": {
			{name: "A", tags: tags("A", "Q"), after: tags("Q")},
			{name: "B", tags: tags("B", "Q")},
			{name: "C", tags: tags("C", "Q"), after: tags("A")},
		},
	}

	for name, items := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Sort(items)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnresolvable)
			var cycle *CycleError[*item]
			require.ErrorAs(t, err, &cycle)
			assert.NotEmpty(t, cycle.Items, "The conflicting items should be identified")
		})
	}
}

func TestCycleError_Error(t *testing.T) {
	_, err := Sort([]*item{
		{name: "A", tags: tags("A"), after: tags("C")},
		{name: "B", tags: tags("B")},
		{name: "C", tags: tags("C"), after: tags("A")},
	})
	require.Error(t, err)
	assert.Equal(t, "unresolvable ordering: cycle C -> A -> C", err.Error())

	_, err = Sort([]*item{{name: "A", before: tags("Q"), after: tags("Q")}})
	require.Error(t, err)
	assert.Equal(t, `unresolvable ordering: A must both precede and follow tag "Q"`, err.Error())
}

func TestConstraints(t *testing.T) {
	edges, err := Constraints([]*item{
		{name: "A", tags: tags("A"), after: tags("B")},
		{name: "B", tags: tags("B"), before: tags("A")},
	})
	require.NoError(t, err)
	assert.Equal(t, []Edge{{Before: 1, After: 0}}, edges, "Mutual declarations collapse into one edge")
}

func TestSort_Properties(t *testing.T) {
	alphabet := []string{"a", "b", "c", Global}
	tagGen := rapid.SliceOfNDistinct(rapid.SampledFrom(alphabet[:3]), 0, 2, rapid.ID[string])
	depGen := rapid.SliceOfNDistinct(rapid.SampledFrom(alphabet), 0, 2, rapid.ID[string])

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(rt, "n")
		items := make([]*item, n)
		for i := range items {
			items[i] = &item{
				name:   fmt.Sprintf("I%d", i),
				tags:   tagGen.Draw(rt, "tags"),
				before: depGen.Draw(rt, "before"),
				after:  depGen.Draw(rt, "after"),
			}
		}
		sorted, err := Sort(items)
		if err != nil {
			assert.ErrorIs(rt, err, ErrUnresolvable)
			return
		}
		assert.ElementsMatch(rt, items, sorted, "Sorting must be a permutation")

		at := make(map[*item]int, len(sorted))
		for i, it := range sorted {
			at[it] = i
		}
		edges, err := Constraints(items)
		assert.NoError(rt, err)
		for _, e := range edges {
			assert.Less(rt, at[items[e.Before]], at[items[e.After]], "Every constraint must hold")
		}
	})
}

func TestSort_UnconstrainedKeepsOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		items := make([]*item, n)
		for i := range items {
			items[i] = &item{
				name: fmt.Sprintf("I%d", i),
				tags: rapid.SliceOfN(rapid.StringMatching(`[a-c]`), 0, 3).Draw(rt, "tags"),
			}
		}
		sorted, err := Sort(items)
		assert.NoError(rt, err)
		assert.Equal(rt, items, sorted)
	})
}
