package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/funaging/themestudio/internal/version"
	"github.com/funaging/themestudio/pkg/theme"
)

func newActiveCmd(flags *rootFlags) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "active",
		Short: "Show the active theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			t, err := c.LoadActive(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), t)
			}
			return renderThemes(cmd.OutOrStdout(), []theme.Theme{t})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func newListCmd(flags *rootFlags, presets bool) *cobra.Command {
	use, short := "list", "List stored themes"
	if presets {
		use, short = "presets", "List preset themes"
	}

	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			list := c.List
			if presets {
				list = c.ListPresets
			}
			themes, err := list(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), themes)
			}
			if len(themes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No themes stored.")
				return nil
			}
			return renderThemes(cmd.OutOrStdout(), themes)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func newApplyCmd(flags *rootFlags) *cobra.Command {
	var preview bool
	cmd := &cobra.Command{
		Use:   "apply <theme-id>",
		Short: "Make a theme active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			t, err := c.Apply(cmd.Context(), args[0], preview)
			if err != nil {
				return err
			}
			verb := "Applied"
			if preview {
				verb = "Previewing"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q (%s)\n", verb, t.Name, t.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&preview, "preview", false, "Fetch the theme without activating it")
	return cmd
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <theme-id>",
		Short: "Write a theme's export document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q (want json or yaml)", format)
			}
			c, err := flags.client()
			if err != nil {
				return err
			}
			doc, err := c.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}
			if format == "yaml" {
				return writeYAML(w, doc)
			}
			return writeJSON(w, doc)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newImportCmd(flags *rootFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Store an exported JSON or YAML document as a new theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readDocument(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				raw.Name = name
			}
			doc, rejections := raw.Normalize()
			for _, r := range rejections {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: dropped %s\n", r)
			}

			c, err := flags.client()
			if err != nil {
				return err
			}
			t, err := c.Import(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q (%s)\n", t.Name, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Override the document's theme name")
	return cmd
}

func newCSSCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "css",
		Short: "Print the active theme as CSS custom properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			css, err := c.ActiveCSS(cmd.Context())
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), css)
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

func renderThemes(w io.Writer, themes []theme.Theme) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tKIND\tACTIVE\tVERSION")
	for _, t := range themes {
		kind := "custom"
		if t.IsPreset {
			kind = "preset"
		}
		active := ""
		if t.IsActive {
			active = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", t.ID, t.Name, kind, active, t.Version)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML emits v with its JSON field names by round-tripping through a
// generic map.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// readDocument loads an export document from a .json, .yaml or .yml file.
func readDocument(path string) (theme.RawDocument, error) {
	var raw theme.RawDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return raw, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var generic map[string]any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return raw, fmt.Errorf("parsing %s: %w", path, err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return raw, fmt.Errorf("converting %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw, nil
}
