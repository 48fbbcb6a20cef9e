package model

import (
	"fmt"

	"github.com/erazemk/imenik/internal/docstore"
)

// DecodeError reports a remote document that does not match its entity shape.
type DecodeError struct {
	DocID  string
	Field  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("document %s: field %q: %s", e.DocID, e.Field, e.Reason)
}

func stringField(doc docstore.Document, name string) (string, error) {
	v, ok := doc.Data[name]
	if !ok {
		return "", &DecodeError{DocID: doc.ID, Field: name, Reason: "missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &DecodeError{DocID: doc.ID, Field: name, Reason: fmt.Sprintf("expected string, got %T", v)}
	}
	return s, nil
}

func nullableStringField(doc docstore.Document, name string) (*string, error) {
	v, ok := doc.Data[name]
	if !ok {
		return nil, &DecodeError{DocID: doc.ID, Field: name, Reason: "missing"}
	}
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, &DecodeError{DocID: doc.ID, Field: name, Reason: fmt.Sprintf("expected string or null, got %T", v)}
	}
	return &s, nil
}
