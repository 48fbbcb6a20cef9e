package crm

import (
	"context"
	"errors"
	"sync"

	"github.com/erazemk/imenik/internal/docstore"
)

type staticIdentity string

func (s staticIdentity) CurrentUserID() string { return string(s) }

// fakeDocs is an in-memory Documents with hooks for failures and blocking.
type fakeDocs struct {
	mu      sync.Mutex
	docs    map[string][]docstore.Document
	ids     []string
	calls   []string
	failErr error
	logos   map[string][]byte

	// listGate, when set, makes List signal listEntered and wait for a
	// value before returning.
	listEntered chan struct{}
	listGate    chan struct{}
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: map[string][]docstore.Document{}, logos: map[string][]byte{}}
}

func (f *fakeDocs) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	return f.failErr
}

func (f *fakeDocs) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeDocs) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	if err := f.record("list " + collection); err != nil {
		return nil, err
	}

	f.mu.Lock()
	docs := append([]docstore.Document(nil), f.docs[collection]...)
	entered, gate := f.listEntered, f.listGate
	f.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}
	return docs, nil
}

func (f *fakeDocs) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := f.record("add " + collection); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	id := "generated"
	if len(f.ids) > 0 {
		id, f.ids = f.ids[0], f.ids[1:]
	}
	f.docs[collection] = append(f.docs[collection], docstore.Document{ID: id, Data: fields})
	return id, nil
}

func (f *fakeDocs) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := f.record("update " + collection + "/" + id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, doc := range f.docs[collection] {
		if doc.ID == id {
			for k, v := range fields {
				f.docs[collection][i].Data[k] = v
			}
			return nil
		}
	}
	return docstore.ErrNotFound
}

func (f *fakeDocs) Delete(ctx context.Context, collection, id string) error {
	if err := f.record("delete " + collection + "/" + id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.docs[collection][:0:0]
	for _, doc := range f.docs[collection] {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	f.docs[collection] = kept
	return nil
}

func (f *fakeDocs) SetLogo(ctx context.Context, companyID string, data []byte) error {
	if err := f.record("setlogo " + companyID); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logos[companyID] = data
	return nil
}

func (f *fakeDocs) Logo(ctx context.Context, companyID string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.logos[companyID]
	if !ok {
		return nil, "", docstore.ErrNotFound
	}
	return data, "image/png", nil
}

var errRemote = errors.New("remote unavailable")
