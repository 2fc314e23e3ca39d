// Package policy maps platform identifiers to their required category
// sequences. Policies are immutable after construction; the sequence order
// carries through to the finished plan verbatim.
package policy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lukaigt/MediaMorph/api/schemas"
)

// ErrUnknownPlatform is returned by PolicyFor for an unrecognized platform id.
var ErrUnknownPlatform = errors.New("unknown platform")

// Set holds the configured platform policies.
type Set struct {
	byPlatform map[string]schemas.PlatformPolicy
}

// New validates and indexes the given policies.
func New(policies []schemas.PlatformPolicy) (*Set, error) {
	s := &Set{byPlatform: make(map[string]schemas.PlatformPolicy, len(policies))}
	for _, pol := range policies {
		if pol.Platform == "" {
			return nil, errors.New("policy platform id must not be empty")
		}
		if _, dup := s.byPlatform[pol.Platform]; dup {
			return nil, fmt.Errorf("policy for platform %q declared twice", pol.Platform)
		}
		if len(pol.RequiredSequence) == 0 {
			return nil, fmt.Errorf("policy %q has an empty required sequence", pol.Platform)
		}
		for i, req := range pol.RequiredSequence {
			if req.Min < 1 {
				return nil, fmt.Errorf("policy %q sequence entry %d: min must be at least 1, got %d", pol.Platform, i, req.Min)
			}
			if req.Max < req.Min {
				return nil, fmt.Errorf("policy %q sequence entry %d: max %d below min %d", pol.Platform, i, req.Max, req.Min)
			}
		}
		s.byPlatform[pol.Platform] = pol
	}
	return s, nil
}

// PolicyFor returns the policy registered for the given platform.
func (s *Set) PolicyFor(platform string) (schemas.PlatformPolicy, error) {
	pol, ok := s.byPlatform[platform]
	if !ok {
		return schemas.PlatformPolicy{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, platform)
	}
	return pol, nil
}

// All returns every configured policy for registry cross-validation.
func (s *Set) All() []schemas.PlatformPolicy {
	out := make([]schemas.PlatformPolicy, 0, len(s.byPlatform))
	for _, pol := range s.byPlatform {
		out = append(out, pol)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out
}

// Platforms returns the known platform ids, sorted.
func (s *Set) Platforms() []string {
	names := make([]string, 0, len(s.byPlatform))
	for name := range s.byPlatform {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
