package client

import (
	"context"
	"net/http"

	"github.com/erazemk/imenik/internal/docstore"
)

type addResponse struct {
	ID string `json:"id"`
}

// List returns every document in a collection in insertion order.
func (c *Client) List(ctx context.Context, collection string) ([]docstore.Document, error) {
	u, err := c.collectionURL(collection)
	if err != nil {
		return nil, err
	}
	var docs []docstore.Document
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Add creates a document and returns the id the server assigned.
func (c *Client) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	u, err := c.collectionURL(collection)
	if err != nil {
		return "", err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	var resp addResponse
	if err := c.doJSON(ctx, http.MethodPost, u, fields, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Update merges fields into an existing document.
func (c *Client) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	u, err := c.collectionURL(collection, id)
	if err != nil {
		return err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return c.doJSON(ctx, http.MethodPatch, u, fields, nil)
}

// Delete removes a document. Missing documents are not an error.
func (c *Client) Delete(ctx context.Context, collection, id string) error {
	u, err := c.collectionURL(collection, id)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, http.MethodDelete, u, nil, nil)
}
