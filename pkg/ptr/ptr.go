package ptr

// New returns a pointer to a copy of v.
func New[T any](v T) *T { return &v }

// Deref returns the value p points to, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Clone returns a pointer to a copy of the value p points to. A nil p stays nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return New(*p)
}
