package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/erazemk/imenik/internal/docstore"
)

// SetLogo uploads an image as a company's logo.
func (c *Client) SetLogo(ctx context.Context, companyID string, data []byte) error {
	u, err := c.collectionURL(docstore.Companies, companyID, "logo")
	if err != nil {
		return err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("logo", "logo")
	if err != nil {
		return fmt.Errorf("building form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("building form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("building form: %w", err)
	}

	return c.do(ctx, http.MethodPut, u, &body, mw.FormDataContentType(), nil)
}

// Logo downloads a company's logo and its MIME type.
func (c *Client) Logo(ctx context.Context, companyID string) ([]byte, string, error) {
	u, err := c.collectionURL(docstore.Companies, companyID, "logo")
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request: %w", err)
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("GET %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, "", responseError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading logo: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
