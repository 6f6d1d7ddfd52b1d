package main

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/rokoui/roko/internal/compiler"
)

func genCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [dir...]",
		Short: "Compile templates into Go code",
		Long: `Compile every *.roko.go file into a *_gen.go file next to it.

Without arguments the directories in gen.include (roko.json) are searched.
Generated files are only rewritten when their content changes, and the
output is deterministic.

Examples:
  roko gen
  roko gen ./ui ./pages
  roko gen -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen(cmd.Context(), cmd.OutOrStdout(), args)
		},
	}

	return cmd
}

func runGen(ctx context.Context, out io.Writer, roots []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		roots = cfg.IncludePaths()
	}
	opts := compiler.OptionsFromConfig(cfg)

	var errs []error
	files, changed := 0, 0
	for _, root := range roots {
		res, err := compiler.Compile(ctx, root, opts)
		files += len(res.Files)
		changed += len(res.Changed())
		if err != nil {
			errs = append(errs, err)
		}
	}
	if err := stderrors.Join(errs...); err != nil {
		return err
	}

	if files == 0 {
		warn(out, "No %s files found", opts.InputSuffix)
		return nil
	}
	success(out, "Generated %d of %d files", changed, files)
	return nil
}
