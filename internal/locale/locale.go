// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locale turns classified lookup failures into user-facing
// messages. Each failure kind has one stable key; templates may name the
// provider through a {provider} placeholder. A YAML catalog file can
// override individual templates without restating the full set.
package locale

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// builtin is the English catalog. Keys are the failure-kind labels from
// the resolve package.
var builtin = map[string]string{
	"missing-identifier":    "The record has no identifier {provider} can look up.",
	"insufficient-metadata": "The record is missing the title plus author or year needed for a {provider} search.",
	"not-found":             "{provider} has no entry for this record.",
	"no-citation-count":     "{provider} returned no usable citation count.",
	"no-results":            "{provider} found no results for the DOI, arXiv id, or title search.",
	"bad-request":           "{provider} rejected the request.",
	"rate-limited":          "{provider} is rate limiting requests. Try again later.",
	"auth-failure":          "{provider} rejected the API key. Check the configured credentials.",
	"server-error":          "{provider} had a server error. Try again later.",
	"network-failure":       "Could not reach {provider}. Check the network connection.",
	"unknown":               "The citation lookup via {provider} failed.",
}

// Catalog resolves failure-kind keys to messages. The zero value is not
// usable; construct with New or Load.
type Catalog struct {
	templates map[string]string
}

// New returns a catalog with the built-in English templates.
func New() *Catalog {
	templates := make(map[string]string, len(builtin))
	for k, v := range builtin {
		templates[k] = v
	}
	return &Catalog{templates: templates}
}

// Load returns the built-in catalog with templates from the YAML file at
// path merged over it. The file maps keys to template strings; keys
// absent from the file keep their built-in text. Unknown keys are
// rejected so typos do not silently leave the built-in in place.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading message catalog: %w", err)
	}

	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing message catalog: %w", err)
	}

	c := New()
	for k, v := range overrides {
		if _, ok := c.templates[k]; !ok {
			return nil, fmt.Errorf("message catalog %s: unknown key %q", path, k)
		}
		c.templates[k] = v
	}
	return c, nil
}

// Message renders the template for key with the provider name filled in.
// An unrecognized key falls back to the generic template so a caller
// always gets something presentable.
func (c *Catalog) Message(key, provider string) string {
	tmpl, ok := c.templates[key]
	if !ok {
		tmpl = c.templates["unknown"]
	}
	return strings.ReplaceAll(tmpl, "{provider}", provider)
}

// Keys lists the catalog's keys. Used to verify template coverage.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.templates))
	for k := range c.templates {
		keys = append(keys, k)
	}
	return keys
}
