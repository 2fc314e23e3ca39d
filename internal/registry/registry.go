// Package registry holds the static effect catalog: every named
// transformation the planner may select, with its parameter schema and
// media-kind compatibility. Read-only after construction.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/lukaigt/MediaMorph/api/schemas"
)

// ErrUnknownEffect is returned by Describe for a name that was never
// registered.
var ErrUnknownEffect = errors.New("unknown effect")

// Registry indexes effect specs by name and by category.
type Registry struct {
	logger     *zap.Logger
	byName     map[string]schemas.EffectSpec
	byCategory map[schemas.Category][]schemas.EffectSpec
}

// New builds the registry and enforces the startup invariants: effect names
// are unique, parameter schemas are well formed, and every category any
// policy references has at least one registered effect. A violation is a
// configuration error and fails construction; callers are expected to treat
// that as fatal.
func New(effects []schemas.EffectSpec, policies []schemas.PlatformPolicy, logger *zap.Logger) (*Registry, error) {
	r := &Registry{
		logger:     logger.Named("registry"),
		byName:     make(map[string]schemas.EffectSpec, len(effects)),
		byCategory: make(map[schemas.Category][]schemas.EffectSpec),
	}

	for _, spec := range effects {
		if err := validateSpec(spec); err != nil {
			return nil, fmt.Errorf("effect %q: %w", spec.Name, err)
		}
		if _, dup := r.byName[spec.Name]; dup {
			return nil, fmt.Errorf("effect %q registered twice", spec.Name)
		}
		r.byName[spec.Name] = spec
		r.byCategory[spec.Category] = append(r.byCategory[spec.Category], spec)
	}

	for _, pol := range policies {
		for _, req := range pol.RequiredSequence {
			if len(r.byCategory[req.Category]) == 0 {
				return nil, fmt.Errorf("policy %q references category %q with no registered effects", pol.Platform, req.Category)
			}
		}
	}

	r.logger.Debug("effect registry initialized",
		zap.Int("effects", len(r.byName)),
		zap.Int("categories", len(r.byCategory)))
	return r, nil
}

func validateSpec(spec schemas.EffectSpec) error {
	if spec.Name == "" {
		return errors.New("effect name must not be empty")
	}
	if len(spec.Media) == 0 {
		return errors.New("effect must declare at least one media kind")
	}
	for _, m := range spec.Media {
		if !m.Valid() {
			return fmt.Errorf("unsupported media kind %q", m)
		}
	}
	if len(spec.Parameters) == 0 {
		// A zero-parameter effect would always emit the same (empty)
		// vector and could never satisfy the anti-repeat invariant.
		return errors.New("effect must declare at least one parameter")
	}
	seen := make(map[string]struct{}, len(spec.Parameters))
	for _, p := range spec.Parameters {
		if p.Name == "" {
			return errors.New("parameter name must not be empty")
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("parameter %q declared twice", p.Name)
		}
		seen[p.Name] = struct{}{}
		switch p.Kind {
		case schemas.ParamContinuous:
			if !(p.Min < p.Max) {
				return fmt.Errorf("parameter %q: min %g must be below max %g", p.Name, p.Min, p.Max)
			}
		case schemas.ParamDiscrete:
			if len(p.Choices) == 0 {
				return fmt.Errorf("parameter %q: discrete parameter needs at least one choice", p.Name)
			}
		default:
			return fmt.Errorf("parameter %q: unknown kind %q", p.Name, p.Kind)
		}
	}
	return nil
}

// Lookup returns the effects registered under the given category, sorted by
// name. The returned slice is a copy; callers may not mutate registry state.
func (r *Registry) Lookup(category schemas.Category) []schemas.EffectSpec {
	specs := r.byCategory[category]
	out := make([]schemas.EffectSpec, len(specs))
	copy(out, specs)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Describe returns the spec registered under the given name.
func (r *Registry) Describe(name string) (schemas.EffectSpec, error) {
	spec, ok := r.byName[name]
	if !ok {
		return schemas.EffectSpec{}, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return spec, nil
}

// Names returns all registered effect names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
