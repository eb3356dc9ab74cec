// Package view holds the presentation rules shared by every transformer:
// image URL resolution, money and number formatting, timestamps.
package view

import (
	"net/url"
	"strings"
)

const (
	DefaultImageBaseURL = "http://localhost:8080/api/images"
	DefaultPlaceholder  = "https://via.placeholder.com/300x300?text=No+Image"
)

// ImageResolver turns a backend image reference into a URL a browser can load.
type ImageResolver struct {
	BaseURL     string
	Placeholder string
}

func NewImageResolver(baseURL, placeholder string) ImageResolver {
	if baseURL == "" {
		baseURL = DefaultImageBaseURL
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return ImageResolver{BaseURL: strings.TrimRight(baseURL, "/"), Placeholder: placeholder}
}

// Resolve maps raw to a URL. Absolute http(s) URLs pass through, hdfs://
// URIs are served by file name from BaseURL, relative paths are joined to
// BaseURL, and empty references fall back to the placeholder.
func (r ImageResolver) Resolve(raw string) string {
	raw = strings.TrimSpace(raw)
	base := strings.TrimRight(r.BaseURL, "/")
	if base == "" {
		base = DefaultImageBaseURL
	}

	switch {
	case raw == "":
		if r.Placeholder == "" {
			return DefaultPlaceholder
		}
		return r.Placeholder
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "hdfs://"):
		name := raw[strings.LastIndex(raw, "/")+1:]
		if name == "" {
			return r.Resolve("")
		}
		return base + "/" + name
	}
	return base + "/" + strings.TrimLeft(raw, "/")
}

// LabelledPlaceholder is the small thumbnail used for order lines without an image.
func LabelledPlaceholder(label string) string {
	return "https://via.placeholder.com/80x80?text=" + url.QueryEscape(label)
}
