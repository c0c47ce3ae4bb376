// Package links builds the absolute URLs embedded in emails and API responses.
package links

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
)

type Builder struct {
	appBase string
	apiBase string
}

func NewBuilder(appBaseURL, apiBaseURL string) *Builder {
	return &Builder{
		appBase: strings.TrimRight(appBaseURL, "/"),
		apiBase: strings.TrimRight(apiBaseURL, "/"),
	}
}

type verifyParams struct {
	Token string `url:"token"`
}

type qrParams struct {
	Size int `url:"size,omitempty"`
}

func build(base, path string, params interface{}) (string, error) {
	v, err := query.Values(params)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	u := base + path
	if q := v.Encode(); q != "" {
		u += "?" + q
	}
	return u, nil
}

// VerifyEmail is the front-end page that consumes a verification token.
func (b *Builder) VerifyEmail(token string) (string, error) {
	return build(b.appBase, "/verify-email", verifyParams{Token: token})
}

// QRImage points at the PNG endpoint for a pre-registration.
func (b *Builder) QRImage(preRegID int64, size int) (string, error) {
	return build(b.apiBase, fmt.Sprintf("/api/pre-registrations/%d/qr.png", preRegID), qrParams{Size: size})
}

// PublicQRImage points at the unauthenticated PNG endpoint that renders a
// code the visitor already holds.
func (b *Builder) PublicQRImage(code string, size int) (string, error) {
	return build(b.apiBase, "/api/public/qr/"+url.PathEscape(code), qrParams{Size: size})
}
