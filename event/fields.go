package event

/*
Fields maps struct field ids to typed consumers. It is built by chaining
OnField calls before a traversal starts and must not be modified while a
traversal is in progress. Registering a second consumer for the same id
replaces the first, which lets callers start from a complete registry and
selectively disable fields.
*/

////////////////////////////////////////////////////////////////////////////////

// Fields is a registry of per-field consumers for one struct shape.
type Fields struct {
	byID map[int16]TypedConsumer
}

// NewFields returns an empty registry. Reading a struct with an empty
// registry skips every field.
func NewFields() *Fields {
	return &Fields{byID: map[int16]TypedConsumer{}}
}

// OnField registers a consumer for a field id and returns the registry for
// chaining. The last registration for an id wins.
func (f *Fields) OnField(id int16, c TypedConsumer) *Fields {
	f.byID[id] = c
	return f
}

// OmitField removes any consumer registered for a field id, so the field is
// skipped during traversal.
func (f *Fields) OmitField(id int16) *Fields {
	delete(f.byID, id)
	return f
}

// Lookup returns the consumer registered for a field id, if any.
func (f *Fields) Lookup(id int16) (TypedConsumer, bool) {
	if f == nil {
		return TypedConsumer{}, false
	}
	c, ok := f.byID[id]
	return c, ok
}
