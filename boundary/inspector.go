package boundary

// Inspector keeps an ordered set of uniquely named boundaries and answers
// which of them contains a point. When regions overlap the boundary that
// was added first wins.
type Inspector struct {
	boundaries []Boundary
}

// NewInspector creates an empty inspector.
func NewInspector() *Inspector {
	return &Inspector{
		boundaries: make([]Boundary, 0),
	}
}

// Add appends b, or replaces the boundary with the same name in place so
// that its position in the lookup order is kept.
func (in *Inspector) Add(b Boundary) {
	for i, existing := range in.boundaries {
		if existing.Name() == b.Name() {
			in.boundaries[i] = b
			return
		}
	}
	in.boundaries = append(in.boundaries, b)
}

// Remove drops the boundary called name. It reports whether one was found.
func (in *Inspector) Remove(name string) bool {
	for i, existing := range in.boundaries {
		if existing.Name() == name {
			in.boundaries = append(in.boundaries[:i], in.boundaries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every boundary.
func (in *Inspector) Clear() {
	in.boundaries = in.boundaries[:0]
}

// Boundary returns the boundary called name.
func (in *Inspector) Boundary(name string) (Boundary, bool) {
	for _, b := range in.boundaries {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// Within reports whether p lies inside the boundary called name. Unknown
// names never contain anything.
func (in *Inspector) Within(name string, p Point) bool {
	b, ok := in.Boundary(name)
	return ok && b.Within(p)
}

// Which returns the name of the first boundary containing p.
func (in *Inspector) Which(p Point) (string, bool) {
	for _, b := range in.boundaries {
		if b.Within(p) {
			return b.Name(), true
		}
	}
	return "", false
}

// Names lists boundary names in lookup order.
func (in *Inspector) Names() []string {
	names := make([]string, 0, len(in.boundaries))
	for _, b := range in.boundaries {
		names = append(names, b.Name())
	}
	return names
}

// Len returns the number of boundaries.
func (in *Inspector) Len() int {
	return len(in.boundaries)
}
