package model

import (
	"errors"
	"strings"

	"github.com/erazemk/imenik/internal/docstore"
)

// ErrNameRequired is returned when a person or company has a blank name.
var ErrNameRequired = errors.New("name is required")

// Person is a contact owned by one user.
//
// CompanyID is a soft reference: the company may have been deleted since.
// CompanyName is a copy of the company's name taken when the person was last
// saved, and goes stale if the company is renamed.
type Person struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CompanyID   *string `json:"companyId"`
	CompanyName string  `json:"companyName"`
	Notes       string  `json:"notes"`
}

// EntityID returns the person's document id.
func (p Person) EntityID() string { return p.ID }

// Clone returns a copy that shares no memory with p.
func (p Person) Clone() Person {
	if p.CompanyID != nil {
		id := *p.CompanyID
		p.CompanyID = &id
	}
	return p
}

// Validate checks the fields a form must fill in before saving.
func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// AssignCompany links p to c and copies its current name. A nil company
// clears the link.
func (p *Person) AssignCompany(c *Company) {
	if c == nil {
		p.CompanyID = nil
		p.CompanyName = ""
		return
	}
	id := c.ID
	p.CompanyID = &id
	p.CompanyName = c.Name
}

// WorksAt reports whether p references the company with the given id.
func (p Person) WorksAt(companyID string) bool {
	return p.CompanyID != nil && *p.CompanyID == companyID
}

// Fields returns the remote document representation of p, without the id.
func (p Person) Fields() map[string]any {
	var companyID any
	if p.CompanyID != nil {
		companyID = *p.CompanyID
	}
	return map[string]any{
		"name":        p.Name,
		"companyId":   companyID,
		"companyName": p.CompanyName,
		"notes":       p.Notes,
	}
}

// PersonFromDocument decodes a contact document. Every field must be present
// with the right type; companyId may be null.
func PersonFromDocument(doc docstore.Document) (Person, error) {
	p := Person{ID: doc.ID}
	var err error

	if p.Name, err = stringField(doc, "name"); err != nil {
		return Person{}, err
	}
	if p.CompanyID, err = nullableStringField(doc, "companyId"); err != nil {
		return Person{}, err
	}
	if p.CompanyName, err = stringField(doc, "companyName"); err != nil {
		return Person{}, err
	}
	if p.Notes, err = stringField(doc, "notes"); err != nil {
		return Person{}, err
	}
	return p, nil
}
