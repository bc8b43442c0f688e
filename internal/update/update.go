// Package update implements the partial-update engine: it merges a sparse set
// of requested changes onto the current persisted entity and returns old/new
// snapshots of the changeable fields. Each entity type declares its changeable
// fields statically through a Changes struct of pointers (nil means "leave
// unchanged"), so the field set is checked at compile time.
package update

// apply overwrites dst with *req when req is set and returns the value dst
// holds afterwards. An explicit value equal to the current one is still a
// change request: the caller records old==new rather than suppressing it.
func apply[T any](dst *T, req *T) T {
	if req != nil {
		*dst = *req
	}
	return *dst
}

// applyOptional is apply for fields that are themselves optional: a present
// request value replaces the stored pointer, absence carries it forward.
func applyOptional[T any](dst **T, req *T) *T {
	if req != nil {
		*dst = req
	}
	return *dst
}
