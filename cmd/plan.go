package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/command"
	"github.com/lukaigt/MediaMorph/internal/config"
	"github.com/lukaigt/MediaMorph/internal/media"
	"github.com/lukaigt/MediaMorph/internal/observability"
	"github.com/lukaigt/MediaMorph/internal/render"
)

type planOptions struct {
	platform string
	session  string
	mediaStr string
	input    string
	custom   string
	doRender bool
	archive  bool
}

func newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a transformation plan for a platform and session",
		Long: `Builds an ordered transformation plan from the platform's policy, the effect
registry and the session's recent history, and prints it as JSON. With
--render the plan is additionally translated into executor arguments
(an ffmpeg argument list for video, op descriptors for images).

With --custom the policy pipeline is bypassed and the plan steps come from a
free-text command string instead ("flip horizontal + speed 1.5").`,
		Example: `  mediamorph plan --platform tiktok --session user-42 --input clip.mp4
  mediamorph plan --platform instagram --session user-42 --media image --render
  mediamorph plan --session user-42 --input clip.mp4 --custom "flip and slow 20%"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.platform, "platform", "p", "", "target platform (tiktok, instagram, youtube)")
	cmd.Flags().StringVarP(&opts.session, "session", "s", "", "session identifier for anti-repeat history")
	cmd.Flags().StringVarP(&opts.mediaStr, "media", "m", "", "media kind (video or image)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "input filename; the media kind is inferred from its extension")
	cmd.Flags().StringVar(&opts.custom, "custom", "", "free-text command string instead of a policy-driven plan")
	cmd.Flags().BoolVar(&opts.doRender, "render", false, "also print the rendered executor arguments")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "save the plan to the Postgres archive (requires postgres.url)")

	_ = cmd.MarkFlagRequired("session")
	return cmd
}

func runPlan(cmd *cobra.Command, opts *planOptions) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	kind, err := resolveKind(opts)
	if err != nil {
		return err
	}

	comps, err := NewComponents(ctx, config.Get(), logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	var plan *schemas.TransformationPlan
	if opts.custom != "" {
		plan = buildCustomPlan(opts, kind)
		if len(plan.Steps) == 0 {
			return fmt.Errorf("no recognized commands in %q", opts.custom)
		}
	} else {
		if opts.platform == "" {
			return fmt.Errorf("either --platform or --custom is required")
		}
		plan, err = comps.Planner.Build(opts.platform, opts.session, kind, now())
		if err != nil {
			return fmt.Errorf("failed to build plan: %w", err)
		}
	}

	out, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	cmd.Println(string(out))

	if opts.doRender {
		if err := printRendered(cmd, plan); err != nil {
			return err
		}
	}

	if opts.archive {
		if comps.Store == nil {
			return fmt.Errorf("--archive requires postgres.url to be configured")
		}
		if err := comps.Store.SavePlan(ctx, plan); err != nil {
			return err
		}
		logger.Info("plan archived", zap.String("plan_id", plan.ID))
	}
	return nil
}

// resolveKind prefers the explicit --media flag and otherwise infers the kind
// from the --input filename extension.
func resolveKind(opts *planOptions) (schemas.MediaKind, error) {
	if opts.mediaStr != "" {
		kind := schemas.MediaKind(opts.mediaStr)
		if !kind.Valid() {
			return "", fmt.Errorf("unsupported media kind %q", opts.mediaStr)
		}
		return kind, nil
	}
	if opts.input != "" {
		kind, ok := media.KindForFilename(opts.input)
		if !ok {
			return "", fmt.Errorf("unsupported file type: %s", opts.input)
		}
		return kind, nil
	}
	return "", fmt.Errorf("either --media or --input is required")
}

// buildCustomPlan wraps parsed command steps in a plan envelope. Custom plans
// carry no platform and never touch session history.
func buildCustomPlan(opts *planOptions, kind schemas.MediaKind) *schemas.TransformationPlan {
	steps := command.New().Parse(opts.custom, kind)
	return &schemas.TransformationPlan{
		ID:      uuid.NewString(),
		Session: opts.session,
		Media:   kind,
		BuiltAt: now(),
		Steps:   steps,
	}
}

func printRendered(cmd *cobra.Command, plan *schemas.TransformationPlan) error {
	switch plan.Media {
	case schemas.MediaVideo:
		args, err := render.VideoArgs(plan)
		if err != nil {
			return fmt.Errorf("failed to render plan: %w", err)
		}
		cmd.Println("ffmpeg args: " + strings.Join(args, " "))
	case schemas.MediaImage:
		ops, err := render.ImageOps(plan)
		if err != nil {
			return fmt.Errorf("failed to render plan: %w", err)
		}
		for _, op := range ops {
			cmd.Println("op: " + op)
		}
	}
	return nil
}
