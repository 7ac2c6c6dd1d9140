package versions

import (
	"context"
	"errors"

	upgerr "github.com/matzehuels/upgrader/pkg/errors"
	"github.com/matzehuels/upgrader/pkg/integrations"
	"github.com/matzehuels/upgrader/pkg/integrations/npm"
)

type npmFetcher struct{ *npm.Client }

// NewNPMFetcher adapts an npm registry client to the [Fetcher] interface.
func NewNPMFetcher(c *npm.Client) Fetcher {
	return npmFetcher{c}
}

func (f npmFetcher) Fetch(ctx context.Context, name string) (*Metadata, error) {
	doc, err := f.FetchDocument(ctx, name)
	if err != nil {
		return nil, codeOf(err, name)
	}
	return &Metadata{
		Name:     doc.Name,
		Versions: doc.VersionKeys(),
		Times:    doc.Time,
		Latest:   doc.DistTags.Latest,
	}, nil
}

// codeOf attaches an error code to registry failures that lack one.
func codeOf(err error, name string) error {
	if upgerr.GetCode(err) != "" {
		return err
	}
	switch {
	case errors.Is(err, integrations.ErrNotFound):
		return upgerr.Wrap(upgerr.ErrCodePackageNotFound, err, "package %s not found", name)
	case errors.Is(err, integrations.ErrRateLimited):
		return upgerr.Wrap(upgerr.ErrCodeRateLimited, err, "registry rate limited %s", name)
	case errors.Is(err, integrations.ErrMalformed):
		return upgerr.Wrap(upgerr.ErrCodeMalformed, err, "malformed document for %s", name)
	case errors.Is(err, context.DeadlineExceeded):
		return upgerr.Wrap(upgerr.ErrCodeTimeout, err, "fetching %s timed out", name)
	default:
		return upgerr.Wrap(upgerr.ErrCodeNetwork, err, "fetching %s", name)
	}
}
