package order

type direction int

const (
	precede direction = iota
	follow
)

// members groups item positions carrying a tag by how they relate to it.
type members struct {
	first  []int
	normal []int
	last   []int
}

type index struct {
	byTag map[string]*members
	own   []set[string]
}

func indexItems[T Item](items []T) (*index, error) {
	idx := &index{
		byTag: map[string]*members{},
		own:   make([]set[string], len(items)),
	}
	for i, item := range items {
		before := newSet(item.GoesBefore()...)
		after := newSet(item.GoesAfter()...)
		for _, tag := range item.GoesBefore() {
			if after.has(tag) {
				return nil, &CycleError[T]{Items: []T{item}, Tag: tag}
			}
		}

		tags := unique(append([]string{Global}, item.Tags()...)...)
		idx.own[i] = newSet(tags[1:]...)
		for _, tag := range tags {
			m, ok := idx.byTag[tag]
			if !ok {
				m = new(members)
				idx.byTag[tag] = m
			}
			switch {
			case before.has(tag):
				m.first = append(m.first, i)
			case after.has(tag):
				m.last = append(m.last, i)
			default:
				m.normal = append(m.normal, i)
			}
		}
	}
	return idx, nil
}

// resolve returns the positions that self must precede or follow for the given dependency tags.
func (idx *index) resolve(self int, deps []string, dir direction) []int {
	var out []int
	for _, dep := range deps {
		m, ok := idx.byTag[dep]
		if !ok {
			continue
		}
		// A dependency on a tag the item carries itself only orders it within that tag's first or last members.
		carried := dep == Global || idx.own[self].has(dep)
		if carried && dir == follow {
			for _, pos := range m.first {
				if pos != self {
					out = append(out, pos)
				}
			}
		}
		for _, pos := range m.normal {
			if pos != self {
				out = append(out, pos)
			}
		}
		for i := len(m.last) - 1; i >= 0; i-- {
			pos := m.last[i]
			if pos == self {
				if carried && dir == follow {
					break
				}
				continue
			}
			out = append(out, pos)
		}
	}
	return out
}
