// Package config provides configuration types shared by the CLI and the UI server.
// It is decoupled from flag and file loading, which live in internal/cli/config.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Link is an outbound link rendered on a static page.
type Link struct {
	Label string `koanf:"label" json:"label"`
	URL   string `koanf:"url" json:"url"`
}

// Validate checks that the link has a label and an absolute http(s) or mailto URL.
func (l Link) Validate() error {
	if strings.TrimSpace(l.Label) == "" {
		return fmt.Errorf("link label is required (url %q)", l.URL)
	}
	u, err := url.Parse(l.URL)
	if err != nil {
		return fmt.Errorf("link %q: invalid url: %w", l.Label, err)
	}
	switch u.Scheme {
	case "http", "https", "mailto":
		return nil
	default:
		return fmt.Errorf("link %q: unsupported url scheme %q\nHint: use an http, https or mailto link", l.Label, u.Scheme)
	}
}

// PagesConfig holds the link lists of the static pages.
type PagesConfig struct {
	Projects []Link `koanf:"projects"`
	Contact  []Link `koanf:"contact"`
}

// Validate checks every link of both pages.
func (p *PagesConfig) Validate() error {
	if p == nil {
		return nil
	}
	for _, l := range p.Projects {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("pages.projects: %w", err)
		}
	}
	for _, l := range p.Contact {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("pages.contact: %w", err)
		}
	}
	return nil
}
