// Package cli wires the route generator into the routegen command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pclements12/tsoa/internal/config"
	generrors "github.com/pclements12/tsoa/internal/errors"
	"github.com/pclements12/tsoa/internal/generator"
	"github.com/pclements12/tsoa/internal/metadata"
	"github.com/pclements12/tsoa/internal/utils"
	"github.com/pclements12/tsoa/internal/watch"
)

// Version is set at build time
var Version = "dev"

type rootOptions struct {
	configFile string
	verbose    bool
	quiet      bool
}

// Execute runs the routegen command line and returns the process exit code
func Execute(args []string, stdout, stderr io.Writer) int {
	return executeContext(context.Background(), args, stdout, stderr)
}

func executeContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := &rootOptions{}
	rootCmd := newRootCommand(opts)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		NewDiagnosticReporter(stderr, opts.verbose).ReportError(err)
		return 1
	}
	return 0
}

// newRootCommand creates the root command. Flag values land in opts.
func newRootCommand(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "routegen",
		Short: "Generate server routes from controller metadata",
		Long: color.CyanString(`routegen - route generator

Reads controller metadata and a type registry, normalizes the models and
writes a routes module for express, koa or hapi.`),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "config file (default routegen.yaml or routegen.json in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only show errors")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.AddCommand(newRoutesCommand(opts))
	rootCmd.AddCommand(newModelsCommand(opts))
	rootCmd.AddCommand(newCleanCommand(opts))

	return rootCmd
}

func newRoutesCommand(root *rootOptions) *cobra.Command {
	var (
		metadataFile string
		watchInputs  bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Generate the routes module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			diag := root.diagnostics(cmd)
			opts, err := root.generateRoutes(diag, metadataFile)
			if err != nil || !watchInputs {
				return err
			}

			fw, err := watch.NewFileWatcher(watchedFiles(opts), watch.DefaultDebounce, diag)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			diag.Info("Watching for changes (Ctrl+C to stop)")
			return fw.Run(ctx, func(files []string) {
				diag.Info("Changed: %s", strings.Join(files, ", "))
				// keep watching; the next change may fix it
				if _, err := root.generateRoutes(diag, metadataFile); err != nil {
					diag.Error("%s", generrors.Format(err))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&metadataFile, "metadata", "m", "", "metadata file (overrides metadataFile in config)")
	cmd.Flags().BoolVarP(&watchInputs, "watch", "w", false, "regenerate when the metadata, config or template changes")
	return cmd
}

// generateRoutes runs one full load, generate and write cycle
func (o *rootOptions) generateRoutes(diag *utils.DiagnosticSystem, metadataFile string) (*config.Options, error) {
	opts, meta, err := o.load(metadataFile)
	if err != nil {
		return nil, err
	}

	diag.Section("Route Generator")
	if opts.RewriteRelativeImportExtensions && !opts.ESM {
		diag.Warn("rewriteRelativeImportExtensions has no effect without esm")
	}
	diag.PhaseHeader("Generating")

	gen := generator.New(meta, opts, diag)
	routes, err := gen.GenerateRoutes()
	if err != nil {
		return nil, err
	}
	diag.PhaseItem(fmt.Sprintf("Rendered %s template", templateLabel(opts)))

	diag.Subsection("Controllers")
	diag.Indent()
	for _, c := range meta.Controllers {
		diag.List("%s (%d methods)", c.Name, len(c.Methods))
	}
	diag.Unindent()

	if err := gen.Write(routes); err != nil {
		return nil, err
	}

	diag.Summary("Routes generated", map[string]interface{}{
		"controllers": len(meta.Controllers),
		"models":      len(meta.ReferenceTypeMap),
		"file":        routes.FilePath,
	})
	return opts, nil
}

// watchedFiles lists the inputs of a routes run
func watchedFiles(opts *config.Options) []string {
	files := []string{opts.MetadataFile}
	if opts.ConfigFile != "" {
		files = append(files, opts.ConfigFile)
	}
	if opts.MiddlewareTemplate != "" {
		files = append(files, opts.MiddlewareTemplate)
	}
	return files
}

func newModelsCommand(root *rootOptions) *cobra.Command {
	var metadataFile string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "Print the normalized model dictionary as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, meta, err := root.load(metadataFile)
			if err != nil {
				return err
			}

			built, err := generator.New(meta, opts, root.diagnostics(cmd)).BuildModels()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(built, "", "  ")
			if err != nil {
				return generrors.WrapGenerateError("models", "model dictionary", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&metadataFile, "metadata", "m", "", "metadata file (overrides metadataFile in config)")
	return cmd
}

func newCleanCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete the generated routes module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			diag := root.diagnostics(cmd)
			opts, err := config.Load(root.configFile)
			if err != nil {
				return err
			}

			removed, err := NewCleaner().CleanGeneratedFiles(opts)
			if err != nil {
				return err
			}

			if len(removed) == 0 {
				diag.Info("Nothing to clean")
				return nil
			}
			for _, file := range removed {
				diag.Success("Removed %s", file)
			}
			return nil
		},
	}
}

// load reads the config and the metadata it points at. metadataFile, when
// set, wins over the configured one.
func (o *rootOptions) load(metadataFile string) (*config.Options, *metadata.Metadata, error) {
	opts, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}

	if metadataFile != "" {
		opts.MetadataFile = metadataFile
	}
	if opts.MetadataFile == "" {
		return nil, nil, generrors.NewConfigurationError("metadataFile", "", "is required").
			WithSuggestion("Pass --metadata or set metadataFile in the config file")
	}

	meta, err := metadata.Load(opts.MetadataFile)
	if err != nil {
		return nil, nil, err
	}
	return opts, meta, nil
}

func (o *rootOptions) diagnostics(cmd *cobra.Command) *utils.DiagnosticSystem {
	level := utils.DiagnosticInfo
	switch {
	case o.quiet:
		level = utils.DiagnosticError
	case o.verbose:
		level = utils.DiagnosticVerbose
	}
	return utils.NewDiagnosticSystemWithWriters(level, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func templateLabel(opts *config.Options) string {
	if opts.MiddlewareTemplate != "" {
		return opts.MiddlewareTemplate
	}
	return string(opts.Middleware)
}
