package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/render"
)

func fixedPlan(kind schemas.MediaKind, steps []schemas.PlanStep) *schemas.TransformationPlan {
	return &schemas.TransformationPlan{
		ID:       "a5a3c2f0-0000-0000-0000-000000000000",
		Platform: "tiktok",
		Session:  "user-1",
		Media:    kind,
		BuiltAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Steps:    steps,
	}
}

// -- Video --

func TestVideoArgsGolden(t *testing.T) {
	plan := fixedPlan(schemas.MediaVideo, []schemas.PlanStep{
		{Effect: "flip", Params: schemas.ParamVector{"direction": schemas.Choice("horizontal")}},
		{Effect: "zoom", Params: schemas.ParamVector{"factor": schemas.Num(1.1)}},
		{Effect: "saturate", Params: schemas.ParamVector{"value": schemas.Num(1.25)}},
		{Effect: "filmGrain", Params: schemas.ParamVector{
			"intensity": schemas.Num(12),
			"temporal":  schemas.Choice("t"),
		}},
		{Effect: "volumeJitter", Params: schemas.ParamVector{"db": schemas.Num(-0.8)}},
		{Effect: "stripExif", Params: schemas.ParamVector{"mode": schemas.Choice("all")}},
		{Effect: "touchTimestamps", Params: schemas.ParamVector{"skewMinutes": schemas.Num(60)}},
		{Effect: "remux", Params: schemas.ParamVector{"format": schemas.Choice("mp4")}},
		{Effect: "bitrateJitter", Params: schemas.ParamVector{"kbps": schemas.Num(2400)}},
	})

	args, err := render.VideoArgs(plan)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "video_args", []byte(strings.Join(args, "\n")+"\n"))
}

func TestVideoArgsStepRendering(t *testing.T) {
	cases := []struct {
		name string
		step schemas.PlanStep
		want []string
	}{
		{
			name: "vertical flip",
			step: schemas.PlanStep{Effect: "flip", Params: schemas.ParamVector{"direction": schemas.Choice("vertical")}},
			want: []string{"-vf", "vflip"},
		},
		{
			name: "speed inverts pts",
			step: schemas.PlanStep{Effect: "speed", Params: schemas.ParamVector{"factor": schemas.Num(2)}},
			want: []string{"-vf", "setpts=0.5000*PTS"},
		},
		{
			name: "square crop",
			step: schemas.PlanStep{Effect: "crop", Params: schemas.ParamVector{
				"aspect": schemas.Choice("square"),
				"inset":  schemas.Num(0.01),
			}},
			want: []string{"-vf", "crop=min(iw\\,ih)*0.9900:min(iw\\,ih)*0.9900"},
		},
		{
			name: "color balance",
			step: schemas.PlanStep{Effect: "colorBalance", Params: schemas.ParamVector{
				"red":   schemas.Num(0.05),
				"green": schemas.Num(-0.02),
				"blue":  schemas.Num(0.01),
			}},
			want: []string{"-vf", "colorbalance=rs=0.0500:gs=-0.0200:bs=0.0100"},
		},
		{
			name: "tempo jitter",
			step: schemas.PlanStep{Effect: "tempoJitter", Params: schemas.ParamVector{"factor": schemas.Num(1.02)}},
			want: []string{"-af", "atempo=1.0200"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := render.VideoArgs(fixedPlan(schemas.MediaVideo, []schemas.PlanStep{tc.step}))
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(args), 2)
			assert.Equal(t, tc.want, args[:2])
		})
	}
}

func TestVideoArgsVintageBlendsTowardSepia(t *testing.T) {
	args, err := render.VideoArgs(fixedPlan(schemas.MediaVideo, []schemas.PlanStep{
		{Effect: "vintage", Params: schemas.ParamVector{"strength": schemas.Num(1)}},
	}))
	require.NoError(t, err)
	require.Equal(t, "-vf", args[0])
	assert.Equal(t,
		"colorchannelmixer=rr=0.3930:rg=0.7690:rb=0.1890:gr=0.3490:gg=0.6860:gb=0.1680:br=0.2720:bg=0.5340:bb=0.1310",
		args[1])
}

func TestVideoArgsRejectsBadPlans(t *testing.T) {
	_, err := render.VideoArgs(fixedPlan(schemas.MediaImage, nil))
	assert.Error(t, err, "image plans have no ffmpeg rendering")

	_, err = render.VideoArgs(fixedPlan(schemas.MediaVideo, []schemas.PlanStep{
		{Effect: "teleport", Params: schemas.ParamVector{"distance": schemas.Num(1)}},
	}))
	assert.Error(t, err, "unknown effects must not be silently dropped")

	_, err = render.VideoArgs(fixedPlan(schemas.MediaVideo, []schemas.PlanStep{
		{Effect: "speed", Params: schemas.ParamVector{"factor": schemas.Num(0)}},
	}))
	assert.Error(t, err)
}

// -- Image --

func TestImageOps(t *testing.T) {
	plan := fixedPlan(schemas.MediaImage, []schemas.PlanStep{
		{Effect: "flip", Params: schemas.ParamVector{"direction": schemas.Choice("horizontal")}},
		{Effect: "crop", Params: schemas.ParamVector{
			"aspect": schemas.Choice("square"),
			"inset":  schemas.Num(0.01),
		}},
		{Effect: "requantize", Params: schemas.ParamVector{"quality": schemas.Num(85)}},
	})

	ops, err := render.ImageOps(plan)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"flip(direction=horizontal)",
		"crop(aspect=square,inset=0.0100)",
		"requantize(quality=85.0000)",
	}, ops)
}

func TestImageOpsRejectsVideoOnlyEffects(t *testing.T) {
	_, err := render.ImageOps(fixedPlan(schemas.MediaImage, []schemas.PlanStep{
		{Effect: "speed", Params: schemas.ParamVector{"factor": schemas.Num(1.1)}},
	}))
	assert.Error(t, err)

	_, err = render.ImageOps(fixedPlan(schemas.MediaVideo, nil))
	assert.Error(t, err, "video plans have no image rendering")
}
