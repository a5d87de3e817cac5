package guard

import (
	"context"

	"github.com/arthur-debert/aka/pkg/cache"
	"github.com/arthur-debert/aka/pkg/directive"
	"github.com/arthur-debert/aka/pkg/errors"
	"github.com/arthur-debert/aka/pkg/logging"
	"github.com/arthur-debert/aka/pkg/resolver"
	"github.com/arthur-debert/aka/pkg/types"
	"github.com/rs/zerolog"
)

// Guard detects cached resolutions that lead back to the launcher and
// searches further down PATH for the real target.
type Guard struct {
	resolver   *resolver.Resolver
	store      *cache.Store
	configPath string
	logger     zerolog.Logger
}

// New creates a Guard. store may be nil.
func New(r *resolver.Resolver, store *cache.Store, configPath string) *Guard {
	return &Guard{
		resolver:   r,
		store:      store,
		configPath: configPath,
		logger:     logging.GetLogger("guard"),
	}
}

// Check returns s unchanged unless its path is the launcher itself, in
// which case it runs Fallback.
func (g *Guard) Check(ctx context.Context, s *types.Settings) (*types.Settings, error) {
	if !g.resolver.IsSelf(s.Path) {
		return s, nil
	}
	g.logger.Debug().Str("alias", s.Key).Str("path", s.Path).Msg("Resolution points at the launcher")
	return g.Fallback(ctx, s)
}

// Fallback re-parses the alias and, for a bare filename target, searches
// PATH past the directory of the stale resolution. The result replaces the
// cached path; every other field is kept.
func (g *Guard) Fallback(ctx context.Context, stale *types.Settings) (*types.Settings, error) {
	parsed, err := directive.ParseFile(g.configPath, stale.Key)
	if err != nil {
		return nil, err
	}

	target := directive.Target(parsed)
	if !resolver.IsBareFilename(target) {
		return nil, errors.Newf(errors.ErrSelfReference,
			"alias '%s' (%s line %d) resolves to aka itself; point it at the real program",
			parsed.Name, g.configPath, parsed.Line).
			WithDetail("alias", parsed.Name).
			WithDetail("line", parsed.Line).
			WithDetail("path", stale.Path)
	}

	path, err := g.resolver.SearchInPathInternal(target, stale.Path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTargetNotFound,
			"alias '%s' (%s line %d): no '%s' in PATH after %s",
			parsed.Name, g.configPath, parsed.Line, target, stale.Path).
			WithDetail("alias", parsed.Name).
			WithDetail("line", parsed.Line)
	}

	updated := stale.Clone()
	updated.Path = path
	g.store.Put(ctx, updated)
	g.logger.Info().Str("alias", stale.Key).Str("path", path).Msg("Re-resolved past the launcher")
	return updated, nil
}
