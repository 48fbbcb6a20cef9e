package state

// Handle exposes the transitions of one slice.
type Handle[T Entity[T]] struct {
	store *Store
	slice func(*Store) *Slice[T]
}

func cloneOf[T Entity[T]](v T) T { return v.Clone() }

// Snapshot returns a deep copy of the slice.
func (h *Handle[T]) Snapshot() Slice[T] {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return h.slice(h.store).clone(cloneOf[T])
}

// Insert appends item. Ids are not checked for uniqueness.
func (h *Handle[T]) Insert(item T) {
	h.store.transition(func() {
		sl := h.slice(h.store)
		sl.Items = append(sl.Items, item.Clone())
	})
}

// Update replaces the first item with the same id, keeping its position.
// Unknown ids leave the slice unchanged.
func (h *Handle[T]) Update(item T) {
	h.store.transition(func() {
		sl := h.slice(h.store)
		for i := range sl.Items {
			if sl.Items[i].EntityID() == item.EntityID() {
				sl.Items[i] = item.Clone()
				return
			}
		}
	})
}

// Remove drops every item with the given id.
func (h *Handle[T]) Remove(id string) {
	h.store.transition(func() {
		sl := h.slice(h.store)
		kept := sl.Items[:0:0]
		for _, item := range sl.Items {
			if item.EntityID() != id {
				kept = append(kept, item)
			}
		}
		sl.Items = kept
	})
}

// BeginFetch marks the slice as loading and clears any previous error.
func (h *Handle[T]) BeginFetch() {
	h.store.transition(func() {
		sl := h.slice(h.store)
		sl.Loading = true
		sl.Error = ""
	})
}

// FetchSucceeded replaces the items wholesale.
func (h *Handle[T]) FetchSucceeded(items []T) {
	h.store.transition(func() {
		sl := h.slice(h.store)
		sl.Items = Slice[T]{Items: items}.clone(cloneOf[T]).Items
		sl.Loading = false
	})
}

// FetchFailed records msg and leaves the items as they were.
func (h *Handle[T]) FetchFailed(msg string) {
	h.store.transition(func() {
		sl := h.slice(h.store)
		sl.Loading = false
		sl.Error = msg
	})
}
