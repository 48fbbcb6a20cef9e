package model

import (
	"strings"

	"github.com/erazemk/imenik/internal/docstore"
)

// Company is shared by all users.
type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EntityID returns the company's document id.
func (c Company) EntityID() string { return c.ID }

// Clone returns c; companies hold no references.
func (c Company) Clone() Company { return c }

// Validate checks the fields a form must fill in before saving.
func (c Company) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Fields returns the remote document representation of c, without the id.
func (c Company) Fields() map[string]any {
	return map[string]any{"name": c.Name}
}

// CompanyFromDocument decodes a company document.
func CompanyFromDocument(doc docstore.Document) (Company, error) {
	name, err := stringField(doc, "name")
	if err != nil {
		return Company{}, err
	}
	return Company{ID: doc.ID, Name: name}, nil
}
