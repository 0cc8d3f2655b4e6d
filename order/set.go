package order

type set[T comparable] map[T]struct{}

func newSet[T comparable](vals ...T) set[T] {
	s := make(set[T], len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func (s set[T]) has(val T) bool {
	_, ok := s[val]
	return ok
}

// unique returns vals without repeats, keeping first occurrence order.
func unique[T comparable](vals ...T) []T {
	seen := make(set[T], len(vals))
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		if seen.has(v) {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
