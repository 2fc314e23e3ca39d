// Package command parses free-text edit commands ("flip horizontal + speed
// 1.5 + vintage filter") into plan steps. Custom commands bypass the platform
// policies entirely: the user says exactly which effects to run, the parser
// normalizes their values into the registry's parameter space.
package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lukaigt/MediaMorph/api/schemas"
)

var (
	splitRe  = regexp.MustCompile(`\s*\+\s*|\s+and\s+`)
	numberRe = regexp.MustCompile(`\d+\.?\d*`)
)

// Parser turns command strings into plan steps.
type Parser struct{}

// New creates a parser.
func New() *Parser {
	return &Parser{}
}

type commandDef struct {
	keyword string
	parse   func(part string) schemas.PlanStep
}

// Command sets differ per media kind: speed and zoom make no sense for a
// still image, noise and crop are image-only in the custom vocabulary.
// Order matters: the first keyword contained in the fragment wins.
var videoCommands = []commandDef{
	{"flip", parseFlip},
	{"speed", parseSpeed},
	{"zoom", parseZoom},
	{"rotate", parseRotate},
	{"brightness", parseBrightness},
	{"contrast", parseContrast},
	{"vintage", parseVintage},
	{"slow", parseSlow},
}

var imageCommands = []commandDef{
	{"flip", parseFlip},
	{"brightness", parseBrightness},
	{"contrast", parseContrast},
	{"color", parseColor},
	{"crop", parseCrop},
	{"rotate", parseRotate},
	{"vintage", parseVintage},
	{"noise", parseNoise},
}

// Parse splits the input on "+" or "and" and parses each fragment against the
// command set for the media kind. Unrecognized fragments are skipped, matching
// the forgiving behavior users expect from a chat-style command box.
func (p *Parser) Parse(input string, kind schemas.MediaKind) []schemas.PlanStep {
	defs := videoCommands
	if kind == schemas.MediaImage {
		defs = imageCommands
	}

	var steps []schemas.PlanStep
	for _, part := range splitRe.Split(strings.ToLower(strings.TrimSpace(input)), -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, def := range defs {
			if strings.Contains(part, def.keyword) {
				steps = append(steps, def.parse(part))
				break
			}
		}
	}
	return steps
}

// firstNumber extracts the first numeric token, or def when absent.
func firstNumber(part string, def float64) float64 {
	m := numberRe.FindString(part)
	if m == "" {
		return def
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return def
	}
	return n
}

func parseFlip(part string) schemas.PlanStep {
	direction := "horizontal"
	if strings.Contains(part, "vertical") || strings.Contains(part, "up") || strings.Contains(part, "down") {
		direction = "vertical"
	}
	return schemas.PlanStep{
		Effect: "flip",
		Params: schemas.ParamVector{"direction": schemas.Choice(direction)},
	}
}

func parseSpeed(part string) schemas.PlanStep {
	factor := firstNumber(part, 1.5)
	if strings.Contains(part, "%") {
		factor /= 100.0
	}
	return schemas.PlanStep{
		Effect: "speed",
		Params: schemas.ParamVector{"factor": schemas.Num(factor)},
	}
}

// parseSlow is the inverse of speed: "slow 20%" means play at 80%.
func parseSlow(part string) schemas.PlanStep {
	factor := 0.8
	if m := numberRe.FindString(part); m != "" {
		n, err := strconv.ParseFloat(m, 64)
		if err == nil && n != 0 {
			if strings.Contains(part, "%") {
				factor = 1.0 - n/100.0
			} else {
				factor = 1.0 / n
			}
		}
	}
	return schemas.PlanStep{
		Effect: "speed",
		Params: schemas.ParamVector{"factor": schemas.Num(factor)},
	}
}

func parseZoom(part string) schemas.PlanStep {
	return schemas.PlanStep{
		Effect: "zoom",
		Params: schemas.ParamVector{"factor": schemas.Num(firstNumber(part, 1.2))},
	}
}

func parseRotate(part string) schemas.PlanStep {
	return schemas.PlanStep{
		Effect: "rotate",
		Params: schemas.ParamVector{"angle": schemas.Num(firstNumber(part, 90))},
	}
}

// parseBrightness normalizes the conversational percent scale ("brightness
// 120" = 20% brighter) into the registry's eq-space offset.
func parseBrightness(part string) schemas.PlanStep {
	pct := firstNumber(part, 120)
	return schemas.PlanStep{
		Effect: "brightness",
		Params: schemas.ParamVector{"value": schemas.Num((pct - 100) / 100.0)},
	}
}

func parseContrast(part string) schemas.PlanStep {
	pct := firstNumber(part, 110)
	return schemas.PlanStep{
		Effect: "contrast",
		Params: schemas.ParamVector{"value": schemas.Num(pct / 100.0)},
	}
}

func parseColor(part string) schemas.PlanStep {
	pct := firstNumber(part, 120)
	return schemas.PlanStep{
		Effect: "saturate",
		Params: schemas.ParamVector{"value": schemas.Num(pct / 100.0)},
	}
}

func parseCrop(part string) schemas.PlanStep {
	return schemas.PlanStep{
		Effect: "crop",
		Params: schemas.ParamVector{
			"aspect": schemas.Choice("square"),
			"inset":  schemas.Num(0),
		},
	}
}

func parseVintage(part string) schemas.PlanStep {
	return schemas.PlanStep{
		Effect: "vintage",
		Params: schemas.ParamVector{"strength": schemas.Num(0.5)},
	}
}

func parseNoise(part string) schemas.PlanStep {
	return schemas.PlanStep{
		Effect: "filmGrain",
		Params: schemas.ParamVector{
			"intensity": schemas.Num(firstNumber(part, 15)),
			"temporal":  schemas.Choice("t"),
		},
	}
}
