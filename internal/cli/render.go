package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/storeview"
	clioutput "github.com/3-lines-studio/storeview/internal/adapters/cli"
	"github.com/3-lines-studio/storeview/internal/core"
)

type RenderOptions struct {
	Views       string
	Env         string
	LocalsPath  string
	Beautify    bool
	Doctype     string
	NoTransform bool
	Out         string
}

func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{}

	cmd := &cobra.Command{
		Use:   "render <view>",
		Short: "Render one view to stdout or a file",
		Long: `Render a view file into a complete HTML document.

The view path is taken relative to the views directory unless it is absolute.
Locals are read from a YAML or JSON file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Views, "views", "", "views directory (overrides config)")
	cmd.Flags().StringVar(&opts.Env, "env", "", "render environment (overrides config and STOREVIEW_ENV)")
	cmd.Flags().StringVar(&opts.LocalsPath, "locals", "", "YAML or JSON file with render locals")
	cmd.Flags().BoolVar(&opts.Beautify, "beautify", false, "indent the rendered markup")
	cmd.Flags().StringVar(&opts.Doctype, "doctype", "", "doctype prepended to the markup")
	cmd.Flags().BoolVar(&opts.NoTransform, "no-transform", false, "disable markdown views")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write the markup to a file")

	return cmd
}

func runRender(rootOpts *RootOptions, opts *RenderOptions, view string, cmd *cobra.Command) error {
	cfg, logger, err := setup(rootOpts, cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("views") {
		cfg.Views = opts.Views
	}
	if flags.Changed("env") {
		cfg.Env = opts.Env
	}
	if flags.Changed("beautify") {
		cfg.Beautify = opts.Beautify
	}
	if flags.Changed("doctype") {
		cfg.Doctype = &opts.Doctype
	}
	if opts.NoTransform {
		disabled := false
		cfg.TransformViews = &disabled
	}

	locals, err := readLocals(opts.LocalsPath)
	if err != nil {
		return err
	}

	engine := storeview.CreateEngine(
		storeview.WithOptions(cfg.EngineOptions()),
		storeview.WithLogger(logger),
	)

	markup, err := engine.RenderContext(cmd.Context(), core.ViewFilename(cfg.Views, view), storeview.RenderOptions{
		Settings: storeview.Settings{Views: cfg.Views, Env: cfg.Env},
		Locals:   locals,
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", view, err)
	}

	if opts.Out == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), markup)
		return err
	}

	if err := os.WriteFile(opts.Out, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.Out, err)
	}
	out := clioutput.NewOutput(cmd.ErrOrStderr())
	out.PrintSuccess("Rendered %s", view)
	out.PrintDetail("output", opts.Out)
	out.PrintDetail("bytes", fmt.Sprint(len(markup)))
	return nil
}

func readLocals(path string) (storeview.Locals, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locals %s: %w", path, err)
	}

	var locals storeview.Locals
	if err := yaml.Unmarshal(data, &locals); err != nil {
		return nil, fmt.Errorf("parse locals %s: %w", path, err)
	}
	return locals, nil
}
