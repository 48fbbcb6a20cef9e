package crm

import (
	"context"
	"fmt"

	"github.com/erazemk/imenik/internal/docstore"
	"github.com/erazemk/imenik/internal/model"
)

func companiesCollection() (string, error) { return docstore.Companies, nil }

// FetchCompanies replaces the local companies with the remote list.
func (s *Syncer) FetchCompanies(ctx context.Context) error {
	if err := s.companies.acquire(ctx); err != nil {
		return err
	}
	defer s.companies.release()

	if err := fetch(ctx, s.docs, s.store.Companies(), companiesCollection, model.CompanyFromDocument); err != nil {
		s.logger.Warn("fetching companies failed", "error", err)
		return fmt.Errorf("fetching companies: %w", err)
	}
	s.logger.Debug("companies fetched", "count", len(s.store.Companies().Snapshot().Items))
	return nil
}

// CreateCompany stores c as a new company and returns it with its id.
func (s *Syncer) CreateCompany(ctx context.Context, c model.Company) (model.Company, error) {
	if err := s.companies.acquire(ctx); err != nil {
		return model.Company{}, err
	}
	defer s.companies.release()

	id, err := s.docs.Add(ctx, docstore.Companies, c.Fields())
	if err != nil {
		return model.Company{}, fmt.Errorf("creating company: %w", err)
	}

	c.ID = id
	s.store.Companies().Insert(c)
	s.logger.Debug("company created", "id", id)
	return c, nil
}

// UpdateCompany saves c to the existing company with c.ID. People already
// linked to it keep the old company name until they are saved again.
func (s *Syncer) UpdateCompany(ctx context.Context, c model.Company) error {
	if err := s.companies.acquire(ctx); err != nil {
		return err
	}
	defer s.companies.release()

	if err := s.docs.Update(ctx, docstore.Companies, c.ID, c.Fields()); err != nil {
		return fmt.Errorf("updating company: %w", err)
	}

	s.store.Companies().Update(c)
	s.logger.Debug("company updated", "id", c.ID)
	return nil
}

// DeleteCompany deletes the company with the given id. People that reference
// it are left as they are.
func (s *Syncer) DeleteCompany(ctx context.Context, id string) error {
	if err := s.companies.acquire(ctx); err != nil {
		return err
	}
	defer s.companies.release()

	if err := s.docs.Delete(ctx, docstore.Companies, id); err != nil {
		return fmt.Errorf("deleting company: %w", err)
	}

	s.store.Companies().Remove(id)
	s.logger.Debug("company deleted", "id", id)
	return nil
}

// SetCompanyLogo uploads a logo for a company. Local state is not affected.
func (s *Syncer) SetCompanyLogo(ctx context.Context, companyID string, data []byte) error {
	logos, ok := s.docs.(Logos)
	if !ok {
		return ErrLogosUnsupported
	}
	if err := logos.SetLogo(ctx, companyID, data); err != nil {
		return fmt.Errorf("setting company logo: %w", err)
	}
	s.logger.Debug("company logo set", "id", companyID, "bytes", len(data))
	return nil
}

// CompanyLogo downloads a company's logo and its MIME type.
func (s *Syncer) CompanyLogo(ctx context.Context, companyID string) ([]byte, string, error) {
	logos, ok := s.docs.(Logos)
	if !ok {
		return nil, "", ErrLogosUnsupported
	}
	data, mime, err := logos.Logo(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("getting company logo: %w", err)
	}
	return data, mime, nil
}
