package schemas

import (
	"encoding/json"
	"fmt"
	"time"
)

// -- Core Plan Models --
// These types are shared by the registry, the sampler, the planner and the
// renderer. They are value types; nothing here is mutated after creation.

// Category groups effects by the aspect of the media they modify.
type Category string

const (
	CategoryGeometric Category = "geometric"
	CategoryColor     Category = "color"
	CategoryNoise     Category = "noise"
	CategoryAudio     Category = "audio"
	CategoryMetadata  Category = "metadata"
	CategoryContainer Category = "container"
)

// MediaKind identifies the kind of input the plan will be applied to.
type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
)

// Valid reports whether the kind is one of the supported media kinds.
func (k MediaKind) Valid() bool {
	return k == MediaVideo || k == MediaImage
}

// ParamKind distinguishes continuous ranges from discrete choice sets.
type ParamKind string

const (
	ParamContinuous ParamKind = "continuous"
	ParamDiscrete   ParamKind = "discrete"
)

// ParamSpec describes one tunable parameter of an effect. Continuous
// parameters are sampled uniformly in [Min, Max]; discrete parameters are a
// uniform choice from Choices.
type ParamSpec struct {
	Name    string    `mapstructure:"name" json:"name" yaml:"name"`
	Kind    ParamKind `mapstructure:"kind" json:"kind" yaml:"kind"`
	Min     float64   `mapstructure:"min" json:"min,omitempty" yaml:"min"`
	Max     float64   `mapstructure:"max" json:"max,omitempty" yaml:"max"`
	Choices []string  `mapstructure:"choices" json:"choices,omitempty" yaml:"choices"`
}

// Span returns the width of a continuous parameter's range.
func (p ParamSpec) Span() float64 {
	return p.Max - p.Min
}

// EffectSpec is the static description of a named transformation. Instances
// are created once at registry initialization and never mutated.
type EffectSpec struct {
	Name       string      `mapstructure:"name" json:"name" yaml:"name"`
	Category   Category    `mapstructure:"category" json:"category" yaml:"category"`
	Media      []MediaKind `mapstructure:"media" json:"media" yaml:"media"`
	Parameters []ParamSpec `mapstructure:"parameters" json:"parameters" yaml:"parameters"`
}

// AppliesTo reports whether the effect can be applied to the given media kind.
func (e EffectSpec) AppliesTo(kind MediaKind) bool {
	for _, m := range e.Media {
		if m == kind {
			return true
		}
	}
	return false
}

// ParamValue is one concrete parameter value, either a number (continuous) or
// a choice (discrete).
type ParamValue struct {
	Kind   ParamKind
	Number float64
	Choice string
}

// Num builds a continuous value.
func Num(v float64) ParamValue { return ParamValue{Kind: ParamContinuous, Number: v} }

// Choice builds a discrete value.
func Choice(v string) ParamValue { return ParamValue{Kind: ParamDiscrete, Choice: v} }

// Equal reports bit-identity. Continuous values compare with ==; tolerance
// checks belong to the sampler, not here.
func (v ParamValue) Equal(o ParamValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == ParamDiscrete {
		return v.Choice == o.Choice
	}
	return v.Number == o.Number
}

// MarshalJSON encodes the value as a bare number or string, which is the shape
// the external executor consumes.
func (v ParamValue) MarshalJSON() ([]byte, error) {
	if v.Kind == ParamDiscrete {
		return json.Marshal(v.Choice)
	}
	return json.Marshal(v.Number)
}

// UnmarshalJSON accepts either a number or a string.
func (v *ParamValue) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = ParamValue{Kind: ParamContinuous, Number: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("param value must be a number or a string: %w", err)
	}
	*v = ParamValue{Kind: ParamDiscrete, Choice: s}
	return nil
}

// ParamVector maps parameter names to concrete values.
type ParamVector map[string]ParamValue

// Equal reports whether two vectors are bit-identical.
func (v ParamVector) Equal(o ParamVector) bool {
	if len(v) != len(o) {
		return false
	}
	for name, val := range v {
		other, ok := o[name]
		if !ok || !val.Equal(other) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the vector.
func (v ParamVector) Clone() ParamVector {
	out := make(ParamVector, len(v))
	for name, val := range v {
		out[name] = val
	}
	return out
}

// PlanStep is one (effect, parameters) entry of a plan.
type PlanStep struct {
	Effect string      `json:"effect"`
	Params ParamVector `json:"params"`
}

// CategoryRequirement is one entry of a policy's required sequence: the
// category to draw from and how many effects to select.
type CategoryRequirement struct {
	Category Category `mapstructure:"category" json:"category" yaml:"category"`
	Min      int      `mapstructure:"min" json:"min" yaml:"min"`
	Max      int      `mapstructure:"max" json:"max" yaml:"max"`
}

// PlatformPolicy maps a platform to its ordered category sequence. The order
// is significant: the executor applies effects in plan order, and e.g.
// cropping before color grading is not order-independent.
type PlatformPolicy struct {
	Platform         string                `mapstructure:"platform" json:"platform" yaml:"platform"`
	RequiredSequence []CategoryRequirement `mapstructure:"sequence" json:"sequence" yaml:"sequence"`
}

// TransformationPlan is the ordered list of transformations handed to the
// external executor. Immutable once built; never read back as planner state
// (the optional archive is write-only bookkeeping).
type TransformationPlan struct {
	ID       string     `json:"id"`
	Platform string     `json:"platform"`
	Session  string     `json:"session"`
	Media    MediaKind  `json:"media"`
	BuiltAt  time.Time  `json:"built_at"`
	Steps    []PlanStep `json:"steps"`
}
