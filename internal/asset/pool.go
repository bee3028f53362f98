package asset

// Intner picks a random index in [0, n).
type Intner interface {
	Intn(n int) int
}

// Pool is an ordered set of image paths.
type Pool struct {
	paths []string
}

// NewPool returns a pool holding paths in order, without duplicates.
func NewPool(paths []string) *Pool {
	p := &Pool{}
	p.Replace(paths)
	return p
}

// Replace swaps the pool contents.
func (p *Pool) Replace(paths []string) {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	p.paths = out
}

// Remove evicts path and reports whether it was present.
func (p *Pool) Remove(path string) bool {
	for i, candidate := range p.paths {
		if candidate == path {
			p.paths = append(p.paths[:i], p.paths[i+1:]...)
			return true
		}
	}
	return false
}

// Pick returns a random path, or "" when the pool is empty.
func (p *Pool) Pick(rnd Intner) string {
	if len(p.paths) == 0 {
		return ""
	}
	return p.paths[rnd.Intn(len(p.paths))]
}

// Len returns the number of paths.
func (p *Pool) Len() int {
	return len(p.paths)
}

// Empty reports whether the pool has no paths.
func (p *Pool) Empty() bool {
	return len(p.paths) == 0
}
