package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/integrations"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// Document is the subset of a registry packument the upgrader reads.
type Document struct {
	Name     string                     `json:"name"`
	DistTags DistTags                   `json:"dist-tags"`
	Versions map[string]json.RawMessage `json:"versions"`
	Time     map[string]string          `json:"time"`
}

// VersionKeys returns the published version keys. Manifest bodies are not
// inspected, so an entry of any JSON shape still counts. The result is
// non-nil whenever the document carried a versions object.
func (d *Document) VersionKeys() []string {
	if d.Versions == nil {
		return nil
	}
	keys := make([]string, 0, len(d.Versions))
	for k := range d.Versions {
		keys = append(keys, k)
	}
	return keys
}

// DistTags holds the named release channels of a package.
type DistTags struct {
	Latest string `json:"latest"`
}

// Client fetches package documents from an npm-compatible registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a registry client on top of base. An empty baseURL
// selects [DefaultRegistry]; a nil base uses integrations defaults.
func NewClient(base *integrations.Client, baseURL string) *Client {
	if base == nil {
		base = integrations.NewClient()
	}
	if baseURL == "" {
		baseURL = DefaultRegistry
	}
	return &Client{Client: base, baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the registry root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchDocument retrieves the packument for name.
//
// Unknown packages yield an error wrapping [integrations.ErrNotFound].
// A body without a "versions" object is reported as malformed.
func (c *Client) FetchDocument(ctx context.Context, name string) (*Document, error) {
	if err := upgerr.ValidatePackageName(name); err != nil {
		return nil, err
	}

	var doc Document
	if err := c.Get(ctx, c.baseURL+"/"+url.PathEscape(name), &doc); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: npm package %s", err, name)
		}
		return nil, err
	}
	if doc.Versions == nil {
		return nil, fmt.Errorf("%w: npm package %s has no versions object", integrations.ErrMalformed, name)
	}
	if doc.Time == nil {
		doc.Time = map[string]string{}
	}
	return &doc, nil
}
