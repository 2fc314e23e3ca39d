package config

import (
	"github.com/lukaigt/MediaMorph/api/schemas"
)

// The built-in effect set. Ranges are intentionally subtle: the point of a
// variation pass is to be invisible to the viewer while still producing a
// distinct parameter vector per upload. All of it can be replaced wholesale
// from the config file.
func DefaultEffects() []schemas.EffectSpec {
	both := []schemas.MediaKind{schemas.MediaVideo, schemas.MediaImage}
	video := []schemas.MediaKind{schemas.MediaVideo}
	image := []schemas.MediaKind{schemas.MediaImage}

	return []schemas.EffectSpec{
		// -- geometric --
		{
			Name:     "flip",
			Category: schemas.CategoryGeometric,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "direction", Kind: schemas.ParamDiscrete, Choices: []string{"horizontal", "vertical"}},
			},
		},
		{
			Name:     "zoom",
			Category: schemas.CategoryGeometric,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "factor", Kind: schemas.ParamContinuous, Min: 1.05, Max: 1.18},
			},
		},
		{
			Name:     "rotate",
			Category: schemas.CategoryGeometric,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "angle", Kind: schemas.ParamContinuous, Min: -0.35, Max: 0.35},
			},
		},
		{
			Name:     "crop",
			Category: schemas.CategoryGeometric,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "aspect", Kind: schemas.ParamDiscrete, Choices: []string{"square", "original"}},
				{Name: "inset", Kind: schemas.ParamContinuous, Min: 0.001, Max: 0.02},
			},
		},
		{
			Name:     "scaleJitter",
			Category: schemas.CategoryGeometric,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "factor", Kind: schemas.ParamContinuous, Min: 0.998, Max: 1.002},
			},
		},
		{
			Name:     "speed",
			Category: schemas.CategoryGeometric,
			Media:    video,
			Parameters: []schemas.ParamSpec{
				{Name: "factor", Kind: schemas.ParamContinuous, Min: 1.05, Max: 1.2},
			},
		},

		// -- color --
		{
			Name:     "brightness",
			Category: schemas.CategoryColor,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "value", Kind: schemas.ParamContinuous, Min: 0.02, Max: 0.08},
			},
		},
		{
			Name:     "contrast",
			Category: schemas.CategoryColor,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "value", Kind: schemas.ParamContinuous, Min: 1.05, Max: 1.15},
			},
		},
		{
			Name:     "saturate",
			Category: schemas.CategoryColor,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "value", Kind: schemas.ParamContinuous, Min: 1.1, Max: 1.4},
			},
		},
		{
			Name:     "hueShift",
			Category: schemas.CategoryColor,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "degrees", Kind: schemas.ParamContinuous, Min: -2.5, Max: 2.5},
			},
		},
		{
			Name:     "gamma",
			Category: schemas.CategoryColor,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "value", Kind: schemas.ParamContinuous, Min: 0.95, Max: 1.05},
			},
		},
		{
			Name:     "colorBalance",
			Category: schemas.CategoryColor,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "red", Kind: schemas.ParamContinuous, Min: -0.1, Max: 0.1},
				{Name: "green", Kind: schemas.ParamContinuous, Min: -0.1, Max: 0.1},
				{Name: "blue", Kind: schemas.ParamContinuous, Min: -0.1, Max: 0.1},
			},
		},
		{
			Name:     "vintage",
			Category: schemas.CategoryColor,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "strength", Kind: schemas.ParamContinuous, Min: 0.2, Max: 0.6},
			},
		},

		// -- noise --
		{
			Name:     "filmGrain",
			Category: schemas.CategoryNoise,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "intensity", Kind: schemas.ParamContinuous, Min: 3, Max: 25},
				{Name: "temporal", Kind: schemas.ParamDiscrete, Choices: []string{"t", "t+u"}},
			},
		},
		{
			Name:     "boxBlur",
			Category: schemas.CategoryNoise,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "radius", Kind: schemas.ParamContinuous, Min: 0.5, Max: 1.5},
			},
		},
		{
			Name:     "sharpen",
			Category: schemas.CategoryNoise,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "amount", Kind: schemas.ParamContinuous, Min: 0.5, Max: 0.9},
				{Name: "size", Kind: schemas.ParamDiscrete, Choices: []string{"3", "5", "7"}},
			},
		},

		// -- audio (video inputs only) --
		{
			Name:     "pitchJitter",
			Category: schemas.CategoryAudio,
			Media:    video,
			Parameters: []schemas.ParamSpec{
				{Name: "cents", Kind: schemas.ParamContinuous, Min: -30, Max: 30},
			},
		},
		{
			Name:     "tempoJitter",
			Category: schemas.CategoryAudio,
			Media:    video,
			Parameters: []schemas.ParamSpec{
				{Name: "factor", Kind: schemas.ParamContinuous, Min: 0.97, Max: 1.03},
			},
		},
		{
			Name:     "volumeJitter",
			Category: schemas.CategoryAudio,
			Media:    video,
			Parameters: []schemas.ParamSpec{
				{Name: "db", Kind: schemas.ParamContinuous, Min: -1.5, Max: 1.5},
			},
		},

		// -- metadata --
		{
			Name:     "stripExif",
			Category: schemas.CategoryMetadata,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "mode", Kind: schemas.ParamDiscrete, Choices: []string{"all", "gps", "timestamps"}},
			},
		},
		{
			Name:     "touchTimestamps",
			Category: schemas.CategoryMetadata,
			Media:    both,
			Parameters: []schemas.ParamSpec{
				{Name: "skewMinutes", Kind: schemas.ParamContinuous, Min: -720, Max: 720},
			},
		},
		{
			Name:     "requantize",
			Category: schemas.CategoryMetadata,
			Media:    image,
			Parameters: []schemas.ParamSpec{
				{Name: "quality", Kind: schemas.ParamContinuous, Min: 78, Max: 91},
			},
		},

		// -- container --
		{
			Name:     "remux",
			Category: schemas.CategoryContainer,
			Media:    video,
			Parameters: []schemas.ParamSpec{
				{Name: "format", Kind: schemas.ParamDiscrete, Choices: []string{"mp4", "mov"}},
			},
		},
		{
			Name:     "bitrateJitter",
			Category: schemas.CategoryContainer,
			Media:    video,
			Parameters: []schemas.ParamSpec{
				{Name: "kbps", Kind: schemas.ParamContinuous, Min: 1800, Max: 3200},
			},
		},
		{
			Name:     "formatRoundTrip",
			Category: schemas.CategoryContainer,
			Media:    image,
			Parameters: []schemas.ParamSpec{
				{Name: "format", Kind: schemas.ParamDiscrete, Choices: []string{"jpeg", "png", "webp"}},
			},
		},
	}
}

// DefaultPolicies returns the built-in per-platform category sequences.
func DefaultPolicies() []schemas.PlatformPolicy {
	return []schemas.PlatformPolicy{
		{
			Platform: "tiktok",
			RequiredSequence: []schemas.CategoryRequirement{
				{Category: schemas.CategoryGeometric, Min: 1, Max: 2},
				{Category: schemas.CategoryColor, Min: 1, Max: 2},
				{Category: schemas.CategoryNoise, Min: 1, Max: 1},
				{Category: schemas.CategoryMetadata, Min: 1, Max: 1},
				{Category: schemas.CategoryContainer, Min: 1, Max: 1},
			},
		},
		{
			Platform: "instagram",
			RequiredSequence: []schemas.CategoryRequirement{
				{Category: schemas.CategoryGeometric, Min: 1, Max: 1},
				{Category: schemas.CategoryColor, Min: 2, Max: 2},
				{Category: schemas.CategoryNoise, Min: 1, Max: 1},
				{Category: schemas.CategoryMetadata, Min: 1, Max: 1},
			},
		},
		{
			Platform: "youtube",
			RequiredSequence: []schemas.CategoryRequirement{
				{Category: schemas.CategoryGeometric, Min: 1, Max: 1},
				{Category: schemas.CategoryColor, Min: 1, Max: 2},
				{Category: schemas.CategoryNoise, Min: 1, Max: 1},
				{Category: schemas.CategoryMetadata, Min: 1, Max: 1},
				{Category: schemas.CategoryContainer, Min: 1, Max: 1},
			},
		},
	}
}
