// Package media turns stored image references into URLs clients can fetch.
package media

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolver joins image references onto a base URL.
type Resolver struct {
	base *url.URL
}

// NewResolver parses baseURL, which may be absolute ("https://cdn/x/")
// or a path ("/media/").
func NewResolver(baseURL string) (*Resolver, error) {
	if baseURL == "" {
		baseURL = "/"
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse media base url: %w", err)
	}
	return &Resolver{base: u}, nil
}

// URL returns where ref can be downloaded. Empty references have no URL
// and absolute references are returned unchanged.
func (r *Resolver) URL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	u.Path = strings.TrimLeft(u.Path, "/")
	return r.base.ResolveReference(u).String()
}
