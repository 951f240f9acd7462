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

// validateEndpoint is the path segment for the address validation API.
const validateEndpoint = "address/validate"

// EmailParts is the parsed breakdown of a successfully parsed address.
type EmailParts struct {
	LocalPart   string `json:"local_part"`
	Domain      string `json:"domain"`
	DisplayName string `json:"display_name,omitempty"`
}

// ValidationResponse echoes the queried address together with the
// provider-computed validation fields. The shape is a passthrough of
// the validation API's JSON response.
type ValidationResponse struct {
	Address             string      `json:"address"`
	DidYouMean          string      `json:"did_you_mean,omitempty"`
	IsDisposableAddress bool        `json:"is_disposable_address"`
	IsRoleAddress       bool        `json:"is_role_address"`
	IsValid             bool        `json:"is_valid"`
	Parts               *EmailParts `json:"parts,omitempty"`
	Reason              string      `json:"reason,omitempty"`
}

// ValidateAddress checks a single address against the validation API.
// Any failure, HTTP-level or decode-level, is returned as a plain
// wrapped error; validation has no structured failure variant.
func (c *Client) ValidateAddress(ctx context.Context, address string) (*ValidationResponse, error) {
	query := url.Values{"address": {address}}

	slog.Debug("validating address",
		"domain", c.creds.domain,
		"address", address,
	)

	status, respBody, err := c.do(ctx, http.MethodGet, c.url(validateEndpoint)+"?"+query.Encode(), "", nil)
	if err != nil {
		return nil, err
	}

	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("address validation returned HTTP %d: %s",
			status, strings.TrimSpace(string(respBody)))
	}

	var parsed ValidationResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse validation response: %w", err)
	}

	return &parsed, nil
}
