// Package render translates a finished transformation plan into arguments for
// the external executors: an ffmpeg filtergraph for video inputs, an ordered
// op list for the imaging sidecar. It builds strings only; running the tools
// is the executor's job.
package render

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/lukaigt/MediaMorph/api/schemas"
)

// Sepia target matrix for the vintage mix.
var sepia = [9]float64{
	0.393, 0.769, 0.189,
	0.349, 0.686, 0.168,
	0.272, 0.534, 0.131,
}

// VideoArgs renders the ffmpeg arguments (everything after "-i INPUT") for a
// video plan: the -vf/-af filter chains in plan order, metadata and container
// flags, then the fixed codec settings.
func VideoArgs(plan *schemas.TransformationPlan) ([]string, error) {
	if plan.Media != schemas.MediaVideo {
		return nil, fmt.Errorf("video renderer got a %q plan", plan.Media)
	}

	var vf, af, flags []string
	for _, step := range plan.Steps {
		if err := renderVideoStep(step, plan.BuiltAt, &vf, &af, &flags); err != nil {
			return nil, err
		}
	}

	var args []string
	if len(vf) > 0 {
		args = append(args, "-vf", strings.Join(vf, ","))
	}
	if len(af) > 0 {
		args = append(args, "-af", strings.Join(af, ","))
	}
	args = append(args, flags...)
	args = append(args, "-c:v", "libx264", "-crf", "22", "-c:a", "aac")
	return args, nil
}

func renderVideoStep(step schemas.PlanStep, builtAt time.Time, vf, af, flags *[]string) error {
	p := step.Params
	switch step.Effect {
	case "flip":
		if p["direction"].Choice == "vertical" {
			*vf = append(*vf, "vflip")
		} else {
			*vf = append(*vf, "hflip")
		}
	case "speed":
		factor := p["factor"].Number
		if factor == 0 {
			return fmt.Errorf("speed factor must not be zero")
		}
		*vf = append(*vf, fmt.Sprintf("setpts=%.4f*PTS", 1.0/factor))
	case "zoom":
		*vf = append(*vf, fmt.Sprintf("zoompan=z=%.4f:x=iw/2-(iw/zoom/2):y=ih/2-(ih/zoom/2):d=1", p["factor"].Number))
	case "rotate":
		*vf = append(*vf, fmt.Sprintf("rotate=%.4f*PI/180", p["angle"].Number))
	case "crop":
		side := 1.0 - p["inset"].Number
		if p["aspect"].Choice == "square" {
			*vf = append(*vf, fmt.Sprintf("crop=min(iw\\,ih)*%.4f:min(iw\\,ih)*%.4f", side, side))
		} else {
			*vf = append(*vf, fmt.Sprintf("crop=iw*%.4f:ih*%.4f", side, side))
		}
	case "scaleJitter":
		f := p["factor"].Number
		*vf = append(*vf, fmt.Sprintf("scale=trunc(iw*%.4f/2)*2:trunc(ih*%.4f/2)*2", f, f))
	case "brightness":
		*vf = append(*vf, fmt.Sprintf("eq=brightness=%.4f", p["value"].Number))
	case "contrast":
		*vf = append(*vf, fmt.Sprintf("eq=contrast=%.4f", p["value"].Number))
	case "saturate":
		*vf = append(*vf, fmt.Sprintf("eq=saturation=%.4f", p["value"].Number))
	case "gamma":
		*vf = append(*vf, fmt.Sprintf("eq=gamma=%.4f", p["value"].Number))
	case "hueShift":
		*vf = append(*vf, fmt.Sprintf("hue=h=%.4f", p["degrees"].Number))
	case "colorBalance":
		*vf = append(*vf, fmt.Sprintf("colorbalance=rs=%.4f:gs=%.4f:bs=%.4f",
			p["red"].Number, p["green"].Number, p["blue"].Number))
	case "vintage":
		*vf = append(*vf, vintageMixer(p["strength"].Number))
	case "filmGrain":
		*vf = append(*vf, fmt.Sprintf("noise=alls=%d:allf=%s",
			int(math.Round(p["intensity"].Number)), p["temporal"].Choice))
	case "boxBlur":
		*vf = append(*vf, fmt.Sprintf("boxblur=%.4f:1", p["radius"].Number))
	case "sharpen":
		size := p["size"].Choice
		*vf = append(*vf, fmt.Sprintf("unsharp=luma_msize_x=%s:luma_msize_y=%s:luma_amount=%.4f",
			size, size, p["amount"].Number))
	case "pitchJitter":
		ratio := math.Pow(2, p["cents"].Number/1200.0)
		*af = append(*af, fmt.Sprintf("asetrate=48000*%.6f", ratio), "aresample=48000")
	case "tempoJitter":
		*af = append(*af, fmt.Sprintf("atempo=%.4f", p["factor"].Number))
	case "volumeJitter":
		*af = append(*af, fmt.Sprintf("volume=%.2fdB", p["db"].Number))
	case "stripExif":
		*flags = append(*flags, "-map_metadata", "-1")
	case "touchTimestamps":
		skew := time.Duration(p["skewMinutes"].Number * float64(time.Minute))
		*flags = append(*flags, "-metadata",
			"creation_time="+builtAt.Add(skew).UTC().Format(time.RFC3339))
	case "remux":
		*flags = append(*flags, "-f", p["format"].Choice)
	case "bitrateJitter":
		*flags = append(*flags, "-b:v", fmt.Sprintf("%dk", int(math.Round(p["kbps"].Number))))
	default:
		return fmt.Errorf("no video rendering for effect %q", step.Effect)
	}
	return nil
}

// vintageMixer blends the identity matrix toward the classic sepia matrix by
// strength, so strength 1.0 is the full colorchannelmixer sepia.
func vintageMixer(strength float64) string {
	id := [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	var m [9]float64
	for i := range m {
		m[i] = id[i] + (sepia[i]-id[i])*strength
	}
	return fmt.Sprintf("colorchannelmixer=rr=%.4f:rg=%.4f:rb=%.4f:gr=%.4f:gg=%.4f:gb=%.4f:br=%.4f:bg=%.4f:bb=%.4f",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8])
}

// Effects that only make sense on a timeline or an av container.
var videoOnlyEffects = map[string]struct{}{
	"speed":         {},
	"pitchJitter":   {},
	"tempoJitter":   {},
	"volumeJitter":  {},
	"remux":         {},
	"bitrateJitter": {},
}

// ImageOps renders an image plan as ordered op descriptors of the form
// "effect(param=value,...)" with parameters sorted by name, the wire format
// the imaging sidecar consumes.
func ImageOps(plan *schemas.TransformationPlan) ([]string, error) {
	if plan.Media != schemas.MediaImage {
		return nil, fmt.Errorf("image renderer got a %q plan", plan.Media)
	}

	ops := make([]string, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		if _, bad := videoOnlyEffects[step.Effect]; bad {
			return nil, fmt.Errorf("effect %q cannot be applied to an image", step.Effect)
		}

		names := make([]string, 0, len(step.Params))
		for name := range step.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			v := step.Params[name]
			if v.Kind == schemas.ParamDiscrete {
				parts = append(parts, fmt.Sprintf("%s=%s", name, v.Choice))
			} else {
				parts = append(parts, fmt.Sprintf("%s=%.4f", name, v.Number))
			}
		}
		ops = append(ops, fmt.Sprintf("%s(%s)", step.Effect, strings.Join(parts, ",")))
	}
	return ops, nil
}
