package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/funaging/themestudio/internal/engine"
	"github.com/funaging/themestudio/internal/synth"
	"github.com/funaging/themestudio/pkg/theme"
)

type editOptions struct {
	set      []string
	setJSON  []string
	content  []string
	saveAs   string
	update   bool
	apply    bool
	printCSS bool
}

func newEditCmd(flags *rootFlags) *cobra.Command {
	opts := &editOptions{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the active theme's settings and save the result",
		Long: `Loads the active theme into an editing session, applies the given
settings and content changes, then optionally saves them.

  themectl edit --set colors.primary=#0EA5E9 --content hero.title="Hello" --save-as "Blue"
  themectl edit --set-json banner.enabled=true --set-json banner.overlayOpacity=0.5 --css`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEdit(cmd, flags, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "Set a string leaf: path=value")
	cmd.Flags().StringArrayVar(&opts.setJSON, "set-json", nil, "Set a leaf from a JSON value: path=json")
	cmd.Flags().StringArrayVar(&opts.content, "content", nil, "Override element content: element-id=text")
	cmd.Flags().StringVar(&opts.saveAs, "save-as", "", "Save the result as a new theme with this name")
	cmd.Flags().BoolVar(&opts.update, "update", false, "Write the result back to the active theme")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "Apply the saved theme")
	cmd.Flags().BoolVar(&opts.printCSS, "css", false, "Print the resulting style variables")
	cmd.MarkFlagsMutuallyExclusive("save-as", "update")

	return cmd
}

func runEdit(cmd *cobra.Command, flags *rootFlags, opts *editOptions) error {
	if opts.apply && opts.saveAs == "" && !opts.update {
		return fmt.Errorf("--apply needs --save-as or --update")
	}
	patch, err := buildPatch(opts.set, opts.setJSON)
	if err != nil {
		return err
	}

	c, err := flags.client()
	if err != nil {
		return err
	}
	logger, err := flags.logger()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	e := engine.New(c, logger)
	if err := e.Init(ctx); err != nil {
		return err
	}
	defer e.Teardown(ctx)

	if len(patch) > 0 {
		rejections, err := e.Update(ctx, patch)
		if err != nil {
			return err
		}
		for _, r := range rejections {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: dropped %s\n", r)
		}
	}
	for _, kv := range opts.content {
		id, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("--content %q: want element-id=text", kv)
		}
		if err := e.Overrides().SetContent(ctx, id, value); err != nil {
			return fmt.Errorf("--content %q: %w", kv, err)
		}
	}

	if opts.printCSS {
		fmt.Fprint(cmd.OutOrStdout(), synth.RenderCSS(e.Variables()))
	}

	var saved theme.Theme
	switch {
	case opts.saveAs != "":
		saved, err = e.Save(ctx, opts.saveAs, "")
	case opts.update:
		saved, err = e.SaveChanges(ctx)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %q (%s) version %d\n", saved.Name, saved.ID, saved.Version)

	if opts.apply {
		applied, err := e.Apply(ctx, saved.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Applied %q (%s)\n", applied.Name, applied.ID)
	}
	return nil
}

// buildPatch turns dotted path assignments into a nested settings patch.
func buildPatch(set, setJSON []string) (theme.Patch, error) {
	patch := theme.Patch{}
	for _, kv := range set {
		path, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want path=value", kv)
		}
		if err := assign(patch, path, value); err != nil {
			return nil, fmt.Errorf("--set %q: %w", kv, err)
		}
	}
	for _, kv := range setJSON {
		path, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set-json %q: want path=json", kv)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("--set-json %q: %w", kv, err)
		}
		if err := assign(patch, path, value); err != nil {
			return nil, fmt.Errorf("--set-json %q: %w", kv, err)
		}
	}
	return patch, nil
}

// assign sets value at a dotted path. Only the first segment is split off
// for content and styles, whose keys are element ids that contain dots.
func assign(patch theme.Patch, path string, value any) error {
	parts := strings.Split(path, ".")
	if len(parts) > 1 && (parts[0] == "content" || parts[0] == "styles") {
		rest := strings.Join(parts[1:], ".")
		if parts[0] == "content" {
			parts = []string{"content", rest}
		} else {
			i := strings.LastIndex(rest, ".")
			if i < 0 {
				return fmt.Errorf("styles path needs an element id and a property")
			}
			parts = []string{"styles", rest[:i], rest[i+1:]}
		}
	}

	cur := map[string]any(patch)
	for i, key := range parts {
		if key == "" {
			return fmt.Errorf("empty path segment")
		}
		if i == len(parts)-1 {
			cur[key] = value
			return nil
		}
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	return nil
}
