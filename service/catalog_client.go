package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/BartJoris/live-babetteconcept-sub001/models"
)

// CatalogClient talks to the shop catalog API over HTTP JSON.
// Implements CatalogClientInterface
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewCatalogClient creates a new CatalogClient. timeout bounds every single
// call; a timed-out call surfaces as a per-record failure, never aborts a run.
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CatalogClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ensure CatalogClient implements CatalogClientInterface
var _ CatalogClientInterface = (*CatalogClient)(nil)

// Lookup queries the catalog for product variants by reference code and
// variant label
func (c *CatalogClient) Lookup(ctx context.Context, creds models.Credentials, referenceCode, variantLabel string) ([]models.CatalogEntry, error) {
	query := url.Values{}
	query.Set("reference", referenceCode)
	query.Set("variant", variantLabel)

	endpoint := fmt.Sprintf("%s/api/products?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	c.authorize(req, creds)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("lookup returned status %d: %s", resp.StatusCode, string(body))
	}

	var entries []models.CatalogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	return entries, nil
}

// UploadAsset pushes one image to a catalog entry as a multipart request
func (c *CatalogClient) UploadAsset(ctx context.Context, creds models.Credentials, externalID int64, payload []byte, displayName string, sequence int, isPrimary bool) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", displayName)
	if err != nil {
		return fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := part.Write(payload); err != nil {
		return fmt.Errorf("failed to write image payload: %w", err)
	}
	_ = writer.WriteField("name", displayName)
	_ = writer.WriteField("sequence", strconv.Itoa(sequence))
	_ = writer.WriteField("primary", strconv.FormatBool(isPrimary))
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/products/%d/images", c.baseURL, externalID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req, creds)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload returned status %d: %s", resp.StatusCode, string(body))
	}

	log.Printf("⬆️  Uploaded %s to catalog entry %d (sequence %d, primary=%v)", displayName, externalID, sequence, isPrimary)
	return nil
}

// authorize attaches the caller's credentials to an outgoing request.
// Credentials are always passed in, never read from ambient storage.
func (c *CatalogClient) authorize(req *http.Request, creds models.Credentials) {
	if creds.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+creds.APIKey)
	}
	if creds.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: creds.SessionID})
	}
}
