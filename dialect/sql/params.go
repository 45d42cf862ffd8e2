package sql

// Params is an insertion-ordered statement parameter mapping. The
// parameter resolver walks entries in insertion order, which is what makes
// the emitted column list and SET clause order stable across runs for
// identical input.
type Params struct {
	keys   []string
	values map[string]any
}

// NewParams returns an empty parameter mapping.
func NewParams() *Params {
	return &Params{values: make(map[string]any)}
}

// Set binds v to the key k. Setting an existing key overwrites its value
// but keeps its original position.
func (p *Params) Set(k string, v any) *Params {
	if _, ok := p.values[k]; !ok {
		p.keys = append(p.keys, k)
	}
	p.values[k] = v
	return p
}

// Get returns the value bound to k.
func (p *Params) Get(k string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[k]
	return v, ok
}

// Has reports whether k is present.
func (p *Params) Has(k string) bool {
	if p == nil {
		return false
	}
	_, ok := p.values[k]
	return ok
}

// Len returns the number of entries.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Keys returns the keys in insertion order.
func (p *Params) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.keys))
	copy(keys, p.keys)
	return keys
}

// Clone returns a copy of the mapping sharing no state with the original.
func (p *Params) Clone() *Params {
	if p == nil {
		return nil
	}
	c := NewParams()
	for _, k := range p.keys {
		c.Set(k, p.values[k])
	}
	return c
}
