// Package client is the HTTP implementation of the storyboard editing API.
// It keeps the session cookie in an in-memory jar, so one Client instance
// behaves like one browser session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"storyboard/internal/domain/part"
	"storyboard/internal/view"
)

// Client talks to a storyboard server. It implements view.API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL (no trailing slash needed).
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// apiError is the JSON error body every non-2xx response carries.
type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// do sends a request and decodes the response into out (when non-nil).
// 401 responses map to view.ErrUnauthenticated so the controller's recovery
// path fires regardless of which call hit the expired session.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var ae apiError
		_ = json.NewDecoder(resp.Body).Decode(&ae)
		if resp.StatusCode == http.StatusUnauthorized {
			if req.URL.Path == "/api/auth/login" {
				return view.ErrInvalidCredentials
			}
			return view.ErrUnauthenticated
		}
		if ae.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, ae.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	// Always declared, even on bodyless calls: the server's CSRF layer keys
	// its fetch-client exemption on this.
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// partBody mirrors the server's create/update payload.
type partBody struct {
	Title               string `json:"title"`
	ImagePath           string `json:"image_path"`
	MovementDescription string `json:"movement_description"`
	Content             string `json:"content"`
}

func toBody(fields view.PartFields) partBody {
	return partBody{
		Title:               fields.Title,
		ImagePath:           fields.ImagePath,
		MovementDescription: fields.MovementDescription,
		Content:             fields.Content,
	}
}

// List fetches all parts in storyboard order.
func (c *Client) List(ctx context.Context) ([]part.Part, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, "/api/parts", nil)
	if err != nil {
		return nil, err
	}
	var parts []part.Part
	if err := c.do(req, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// Create adds a new part at the end of the storyboard.
func (c *Client) Create(ctx context.Context, fields view.PartFields) (part.Part, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/parts", toBody(fields))
	if err != nil {
		return part.Part{}, err
	}
	var created part.Part
	if err := c.do(req, &created); err != nil {
		return part.Part{}, err
	}
	return created, nil
}

// Update replaces a part's editable fields.
func (c *Client) Update(ctx context.Context, id string, fields view.PartFields) (part.Part, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, "/api/parts/"+id, toBody(fields))
	if err != nil {
		return part.Part{}, err
	}
	var updated part.Part
	if err := c.do(req, &updated); err != nil {
		return part.Part{}, err
	}
	return updated, nil
}

// Delete removes a part.
func (c *Client) Delete(ctx context.Context, id string) error {
	req, err := c.jsonRequest(ctx, http.MethodDelete, "/api/parts/"+id, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Reorder submits a batch of order changes and returns the new canonical list.
func (c *Client) Reorder(ctx context.Context, orders []part.Order) ([]part.Part, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, "/api/parts/reorder",
		map[string][]part.Order{"parts": orders})
	if err != nil {
		return nil, err
	}
	var parts []part.Part
	if err := c.do(req, &parts); err != nil {
		return nil, err
	}
	return parts, nil
}

// Upload sends an image as multipart/form-data and returns its public path.
func (c *Client) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		header.Set("Content-Type", ct)
	}
	fw, err := mw.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, content); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result struct {
		Path string `json:"path"`
	}
	if err := c.do(req, &result); err != nil {
		return "", err
	}
	return result.Path, nil
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, username, password string) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Logout ends the session on the server and lets the expired cookie
// overwrite the jar entry.
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// Status reports whether the jar currently holds a valid session.
func (c *Client) Status(ctx context.Context) (bool, string, error) {
	req, err := c.jsonRequest(ctx, http.MethodGet, "/api/auth/status", nil)
	if err != nil {
		return false, "", err
	}
	var result struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username"`
	}
	if err := c.do(req, &result); err != nil {
		return false, "", err
	}
	return result.Authenticated, result.Username, nil
}

var _ view.API = (*Client)(nil)
