// Package crm synchronizes the local state with the remote document store.
//
// Every operation writes to the remote store first and changes local state
// only after the remote call succeeded. Operations on the same entity type
// run one at a time, so a fetch that started before a write can never land
// after it and undo it.
package crm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/erazemk/imenik/internal/docstore"
	"github.com/erazemk/imenik/internal/state"
)

// ErrNotAuthenticated is returned by per-user operations when nobody is
// signed in.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrLogosUnsupported is returned when the document backend cannot store
// company logos.
var ErrLogosUnsupported = errors.New("logo storage not supported by this backend")

// Documents is the remote document store.
type Documents interface {
	List(ctx context.Context, collection string) ([]docstore.Document, error)
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// Logos is implemented by backends that store company logos.
type Logos interface {
	SetLogo(ctx context.Context, companyID string, data []byte) error
	Logo(ctx context.Context, companyID string) ([]byte, string, error)
}

// Identity reports the signed-in user. An empty id means signed out.
type Identity interface {
	CurrentUserID() string
}

// Syncer runs the synchronization operations against one local store.
type Syncer struct {
	docs   Documents
	ident  Identity
	store  *state.Store
	logger *slog.Logger

	people    lane
	companies lane
}

// New returns a Syncer. A nil logger uses slog.Default.
func New(docs Documents, ident Identity, st *state.Store, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		docs:      docs,
		ident:     ident,
		store:     st,
		logger:    logger,
		people:    newLane(),
		companies: newLane(),
	}
}

// lane admits one operation at a time.
type lane chan struct{}

func newLane() lane { return make(lane, 1) }

func (l lane) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l lane) release() { <-l }

// fetch runs the fetch-all lifecycle for one slice.
func fetch[T state.Entity[T]](
	ctx context.Context,
	docs Documents,
	h *state.Handle[T],
	collection func() (string, error),
	decode func(docstore.Document) (T, error),
) error {
	h.BeginFetch()

	coll, err := collection()
	if err != nil {
		h.FetchFailed(err.Error())
		return err
	}

	raw, err := docs.List(ctx, coll)
	if err != nil {
		h.FetchFailed(err.Error())
		return err
	}

	items := make([]T, 0, len(raw))
	for _, doc := range raw {
		item, err := decode(doc)
		if err != nil {
			h.FetchFailed(err.Error())
			return err
		}
		items = append(items, item)
	}

	h.FetchSucceeded(items)
	return nil
}
