package resolve

import (
	"context"
	"sort"
	"sync"

	"github.com/tressel-dev/tressel/internal/logger"
	"github.com/tressel-dev/tressel/pkg/errors"
	"github.com/tressel-dev/tressel/pkg/model"
	"github.com/tressel-dev/tressel/pkg/registry"
	"github.com/tressel-dev/tressel/pkg/retry"
	"golang.org/x/sync/errgroup"
)

// Resolver turns version ranges into concrete resolved packages by querying
// the registry and recording requirement-to-resolution relations in a graph.
type Resolver struct {
	fetcher registry.MetadataFetcher
	retry   retry.Policy
}

// NewResolver creates a resolver on top of a metadata fetcher. Fetch failures
// are retried according to the policy before they surface.
func NewResolver(fetcher registry.MetadataFetcher, policy retry.Policy) *Resolver {
	return &Resolver{fetcher: fetcher, retry: policy}
}

// Append resolves the given requirements and their transitive dependencies
// into the graph. Requirements already satisfied by an existing relation are
// skipped. In strict mode no resolution happens at all: a requirement the
// graph cannot satisfy is an error, so a lockfile-loaded graph is used
// verbatim or not at all.
func (r *Resolver) Append(ctx context.Context, graph *Graph, specs []model.Specifier, strict bool) error {
	if strict {
		for _, spec := range specs {
			if _, ok := graph.Resolve(spec); !ok {
				return errors.Wrapf(errors.ErrLockfileMismatch, "%s", spec)
			}
		}
		return nil
	}

	frontier := specs
	metadataCache := make(map[string]*registry.PackageMetadata)

	for len(frontier) > 0 {
		pending := r.dedupeUnsatisfied(graph, frontier)
		if len(pending) == 0 {
			return nil
		}

		if err := r.fetchAll(ctx, pending, metadataCache); err != nil {
			return err
		}

		var next []model.Specifier
		for _, spec := range pending {
			if _, ok := graph.Resolve(spec); ok {
				// An earlier spec in this round resolved it.
				continue
			}
			dep, err := r.selectVersion(graph, metadataCache[spec.Name], spec)
			if err != nil {
				return err
			}
			graph.AddRelation(spec, dep)
			logger.Debugf("resolved %s to %s", spec, dep.ID())
			next = append(next, dep.Requirements()...)
		}
		frontier = next
	}
	return nil
}

// dedupeUnsatisfied filters specs down to those with no usable relation yet,
// removing duplicates and sorting for deterministic resolution order.
func (r *Resolver) dedupeUnsatisfied(graph *Graph, specs []model.Specifier) []model.Specifier {
	seen := make(map[model.Specifier]struct{}, len(specs))
	var pending []model.Specifier
	for _, spec := range specs {
		if _, dup := seen[spec]; dup {
			continue
		}
		seen[spec] = struct{}{}
		if _, ok := graph.Resolve(spec); ok {
			continue
		}
		pending = append(pending, spec)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Name != pending[j].Name {
			return pending[i].Name < pending[j].Name
		}
		return pending[i].Range < pending[j].Range
	})
	return pending
}

// fetchAll retrieves metadata for every pending name concurrently. Any fetch
// failure fails the whole call.
func (r *Resolver) fetchAll(ctx context.Context, pending []model.Specifier, cache map[string]*registry.PackageMetadata) error {
	names := make([]string, 0, len(pending))
	for _, spec := range pending {
		if _, ok := cache[spec.Name]; ok {
			continue
		}
		names = append(names, spec.Name)
	}
	names = uniqueStrings(names)

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	for _, name := range names {
		group.Go(func() error {
			var metadata *registry.PackageMetadata
			err := r.retry.Do(groupCtx, func() error {
				var fetchErr error
				metadata, fetchErr = r.fetcher.FetchMetadata(groupCtx, name)
				return fetchErr
			})
			if err != nil {
				return err
			}
			mu.Lock()
			cache[name] = metadata
			mu.Unlock()
			return nil
		})
	}
	return group.Wait()
}

// selectVersion picks the concrete version for a specifier: an already
// resolved version of the same name when it still satisfies the range (to
// maximize sharing), otherwise the highest published satisfying version,
// otherwise a dist-tag match for tag-style requirements.
func (r *Resolver) selectVersion(graph *Graph, metadata *registry.PackageMetadata, spec model.Specifier) (*model.ResolvedDependency, error) {
	if metadata == nil {
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "%s", spec.Name)
	}
	if len(metadata.Versions) == 0 {
		return nil, errors.Wrapf(errors.ErrPackageNotFound, "%s has no published versions", spec.Name)
	}

	var shared *model.ResolvedDependency
	for _, existing := range graph.ResolvedVersions(spec.Name) {
		if !spec.Satisfied(existing.Version) {
			continue
		}
		if shared == nil || versionLess(shared, existing) {
			shared = existing
		}
	}
	if shared != nil {
		return shared, nil
	}

	if vm, ok := metadata.HighestSatisfying(spec); ok {
		return metadata.Resolved(vm), nil
	}
	if spec.IsExactTag() {
		if vm, ok := metadata.Tagged(spec.Range); ok {
			return metadata.Resolved(vm), nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNoSatisfyingVersion, "%s", spec)
}

func versionLess(a, b *model.ResolvedDependency) bool {
	av, bv := a.GetVersion(), b.GetVersion()
	if av == nil || bv == nil {
		return a.Version < b.Version
	}
	return av.LessThan(bv)
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
