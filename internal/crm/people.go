package crm

import (
	"context"
	"fmt"

	"github.com/erazemk/imenik/internal/docstore"
	"github.com/erazemk/imenik/internal/model"
)

func (s *Syncer) contacts() (string, error) {
	uid := s.ident.CurrentUserID()
	if uid == "" {
		return "", ErrNotAuthenticated
	}
	return docstore.Contacts(uid), nil
}

// FetchPeople replaces the local people with the signed-in user's contacts.
func (s *Syncer) FetchPeople(ctx context.Context) error {
	if err := s.people.acquire(ctx); err != nil {
		return err
	}
	defer s.people.release()

	if err := fetch(ctx, s.docs, s.store.People(), s.contacts, model.PersonFromDocument); err != nil {
		s.logger.Warn("fetching people failed", "error", err)
		return fmt.Errorf("fetching people: %w", err)
	}
	s.logger.Debug("people fetched", "count", len(s.store.People().Snapshot().Items))
	return nil
}

// CreatePerson stores p as a new contact and returns it with its id.
func (s *Syncer) CreatePerson(ctx context.Context, p model.Person) (model.Person, error) {
	coll, err := s.contacts()
	if err != nil {
		return model.Person{}, err
	}
	if err := s.people.acquire(ctx); err != nil {
		return model.Person{}, err
	}
	defer s.people.release()

	id, err := s.docs.Add(ctx, coll, p.Fields())
	if err != nil {
		return model.Person{}, fmt.Errorf("creating person: %w", err)
	}

	p.ID = id
	s.store.People().Insert(p)
	s.logger.Debug("person created", "id", id)
	return p, nil
}

// UpdatePerson saves every field of p to the existing contact with p.ID.
func (s *Syncer) UpdatePerson(ctx context.Context, p model.Person) error {
	coll, err := s.contacts()
	if err != nil {
		return err
	}
	if err := s.people.acquire(ctx); err != nil {
		return err
	}
	defer s.people.release()

	if err := s.docs.Update(ctx, coll, p.ID, p.Fields()); err != nil {
		return fmt.Errorf("updating person: %w", err)
	}

	s.store.People().Update(p)
	s.logger.Debug("person updated", "id", p.ID)
	return nil
}

// DeletePerson deletes the contact with the given id.
func (s *Syncer) DeletePerson(ctx context.Context, id string) error {
	coll, err := s.contacts()
	if err != nil {
		return err
	}
	if err := s.people.acquire(ctx); err != nil {
		return err
	}
	defer s.people.release()

	if err := s.docs.Delete(ctx, coll, id); err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}

	s.store.People().Remove(id)
	s.logger.Debug("person deleted", "id", id)
	return nil
}
