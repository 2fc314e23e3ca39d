package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/config"
	"github.com/lukaigt/MediaMorph/internal/policy"
)

func TestNewWithBuiltins(t *testing.T) {
	set, err := policy.New(config.DefaultPolicies())
	require.NoError(t, err)
	assert.Equal(t, []string{"instagram", "tiktok", "youtube"}, set.Platforms())
}

func TestNewRejectsInvalidPolicies(t *testing.T) {
	geo := schemas.CategoryRequirement{Category: schemas.CategoryGeometric, Min: 1, Max: 1}

	cases := []struct {
		name     string
		policies []schemas.PlatformPolicy
	}{
		{
			name:     "empty platform id",
			policies: []schemas.PlatformPolicy{{Platform: "", RequiredSequence: []schemas.CategoryRequirement{geo}}},
		},
		{
			name: "duplicate platform",
			policies: []schemas.PlatformPolicy{
				{Platform: "tiktok", RequiredSequence: []schemas.CategoryRequirement{geo}},
				{Platform: "tiktok", RequiredSequence: []schemas.CategoryRequirement{geo}},
			},
		},
		{
			name:     "empty sequence",
			policies: []schemas.PlatformPolicy{{Platform: "tiktok"}},
		},
		{
			name: "zero min",
			policies: []schemas.PlatformPolicy{{
				Platform:         "tiktok",
				RequiredSequence: []schemas.CategoryRequirement{{Category: schemas.CategoryGeometric, Min: 0, Max: 1}},
			}},
		},
		{
			name: "max below min",
			policies: []schemas.PlatformPolicy{{
				Platform:         "tiktok",
				RequiredSequence: []schemas.CategoryRequirement{{Category: schemas.CategoryGeometric, Min: 2, Max: 1}},
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := policy.New(tc.policies)
			assert.Error(t, err)
		})
	}
}

func TestPolicyForUnknownPlatform(t *testing.T) {
	set, err := policy.New(config.DefaultPolicies())
	require.NoError(t, err)

	_, err = set.PolicyFor("myspace")
	assert.ErrorIs(t, err, policy.ErrUnknownPlatform)
}

func TestPolicyForPreservesSequenceOrder(t *testing.T) {
	set, err := policy.New(config.DefaultPolicies())
	require.NoError(t, err)

	pol, err := set.PolicyFor("instagram")
	require.NoError(t, err)

	var categories []schemas.Category
	for _, req := range pol.RequiredSequence {
		categories = append(categories, req.Category)
	}
	assert.Equal(t, []schemas.Category{
		schemas.CategoryGeometric,
		schemas.CategoryColor,
		schemas.CategoryNoise,
		schemas.CategoryMetadata,
	}, categories)
}
