package mailgun

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// templatesEndpoint is the path segment for the templates API.
const templatesEndpoint = "templates"

// templateVersionsEndpoint is the path suffix listing a template's versions.
const templateVersionsEndpoint = "versions"

// Template is a stored message template to create through the API.
// Optional fields left empty are omitted from the request.
type Template struct {
	Name        string
	Description string
	Template    string
	Tag         string
	Engine      string
	Comment     string
}

// params flattens the template into templates API form fields.
func (t Template) params() url.Values {
	params := url.Values{}
	params.Set("name", t.Name)
	params.Set("description", t.Description)

	if t.Template != "" {
		params.Set("template", t.Template)
	}
	if t.Tag != "" {
		params.Set("tag", t.Tag)
	}
	if t.Engine != "" {
		params.Set("engine", t.Engine)
	}
	if t.Comment != "" {
		params.Set("comment", t.Comment)
	}

	return params
}

// VersionResponse describes one stored version of a template.
type VersionResponse struct {
	CreatedAt string `json:"createdAt"`
	Engine    string `json:"engine"`
	Tag       string `json:"tag"`
	Comment   string `json:"comment"`
	Mjml      string `json:"mjml"`
	Template  string `json:"template,omitempty"`
	ID        string `json:"id,omitempty"`
	Active    bool   `json:"active"`
}

// TemplateResponse describes a stored template.
type TemplateResponse struct {
	CreatedAt   string            `json:"createdAt"`
	CreatedBy   string            `json:"createdBy"`
	Description string            `json:"description"`
	Name        string            `json:"name"`
	ID          string            `json:"id"`
	Version     *VersionResponse  `json:"version,omitempty"`
	Versions    []VersionResponse `json:"versions,omitempty"`
}

// CreateTemplateResponse is the success body of a template creation.
type CreateTemplateResponse struct {
	Message  string           `json:"message"`
	Template TemplateResponse `json:"template"`
}

// GetTemplatesResponse is a list of stored templates. Single-template
// lookups are normalized into this shape as well.
type GetTemplatesResponse struct {
	Items []TemplateResponse `json:"items"`
}

// getSingleTemplateResponse is the wire shape of a single-template lookup.
type getSingleTemplateResponse struct {
	Template TemplateResponse `json:"template"`
}

// CreateTemplate stores a new template for the sending domain.
// A non-2xx response is returned as an *APIError.
func (c *Client) CreateTemplate(ctx context.Context, tpl Template) (*CreateTemplateResponse, error) {
	form := tpl.params().Encode()

	slog.Debug("creating template",
		"domain", c.creds.domain,
		"name", tpl.Name,
	)

	status, respBody, err := c.do(ctx, http.MethodPost, c.url(templatesEndpoint),
		"application/x-www-form-urlencoded", strings.NewReader(form))
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, decodeAPIError(status, respBody)
	}

	var parsed CreateTemplateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse create template response: %w", err)
	}

	return &parsed, nil
}

// GetTemplates lists all templates stored for the sending domain.
func (c *Client) GetTemplates(ctx context.Context) (*GetTemplatesResponse, error) {
	status, respBody, err := c.do(ctx, http.MethodGet, c.url(templatesEndpoint), "", nil)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, decodeAPIError(status, respBody)
	}

	var parsed GetTemplatesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse templates response: %w", err)
	}

	return &parsed, nil
}

// GetTemplate fetches a single template by name, optionally with all of
// its stored versions. The response is normalized into the list shape.
func (c *Client) GetTemplate(ctx context.Context, name string, withVersions bool) (*GetTemplatesResponse, error) {
	segments := []string{templatesEndpoint, name}
	if withVersions {
		segments = append(segments, templateVersionsEndpoint)
	}

	status, respBody, err := c.do(ctx, http.MethodGet, c.url(segments...), "", nil)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, decodeAPIError(status, respBody)
	}

	var parsed getSingleTemplateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse template response: %w", err)
	}

	return &GetTemplatesResponse{Items: []TemplateResponse{parsed.Template}}, nil
}
