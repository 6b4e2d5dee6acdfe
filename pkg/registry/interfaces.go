//go:generate mockgen -destination=./mocks/registry.go -package=mocks . MetadataFetcher,TarballClient

package registry

import (
	"context"
	"io"
)

// MetadataFetcher is the subset of the registry client the resolver consumes.
type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, name string) (*PackageMetadata, error)
}

// TarballClient is the subset of the registry client the store consumes.
type TarballClient interface {
	OpenTarball(ctx context.Context, url string) (io.ReadCloser, error)
}
