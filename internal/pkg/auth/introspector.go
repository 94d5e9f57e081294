// Package auth is the only artifact of the out-of-scope OAuth
// introspection service (§6): a narrow interface transports call to
// resolve a bearer token into a capability check, plus the outcome
// mapping to apperr.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/playforge/updatedist/pkg/apperr"
)

// Capability is one of the two roles the route table gates on.
type Capability string

const (
	CapabilityEdit Capability = "update:edit"
	CapabilityView Capability = "update:view"
)

// TokenIntrospector resolves a bearer token against the required
// capability. Implementations call out to the external OPENID_*
// introspection endpoint; the core never talks to it directly.
type TokenIntrospector interface {
	Introspect(ctx context.Context, token string, required Capability) error
}

// HTTPIntrospector calls an RFC 7662-shaped introspection endpoint.
// It is the one concrete implementation the delivery layer wires by
// default; tests substitute a stub.
type HTTPIntrospector struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

func NewHTTPIntrospector(issuerURL, clientID, clientSecret string) *HTTPIntrospector {
	return &HTTPIntrospector{
		IssuerURL:    issuerURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		HTTPClient:   &http.Client{Timeout: 5 * time.Second},
	}
}

type introspectionResult struct {
	Active bool   `json:"active"`
	Scope  string `json:"scope"`
}

// Introspect posts the token to the issuer's introspection endpoint and
// checks the returned scope list for required. The wire call itself is
// out of scope for the core's testable properties (§7); this method's
// job is entirely the three-way outcome mapping.
func (i *HTTPIntrospector) Introspect(ctx context.Context, token string, required Capability) error {
	if token == "" {
		return apperr.Auth("missing bearer token")
	}
	if i.IssuerURL == "" {
		return apperr.Unavailable(nil)
	}

	result, err := i.callIntrospectionEndpoint(ctx, token)
	if err != nil {
		return apperr.Unavailable(err)
	}
	if !result.Active {
		return apperr.Auth("token is expired or invalid")
	}
	if !hasScope(result.Scope, string(required)) {
		return apperr.Auth("token lacks required capability " + string(required))
	}
	return nil
}

func (i *HTTPIntrospector) callIntrospectionEndpoint(ctx context.Context, token string) (*introspectionResult, error) {
	form := url.Values{
		"token":         {token},
		"client_id":     {i.ClientID},
		"client_secret": {i.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.IssuerURL+"/introspect", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := i.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result introspectionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func hasScope(scopeList, want string) bool {
	for _, s := range strings.Fields(scopeList) {
		if s == want {
			return true
		}
	}
	return false
}
