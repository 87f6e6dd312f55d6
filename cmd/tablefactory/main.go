package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tablefactory/pkg/config"
	"github.com/ajitpratap0/tablefactory/pkg/connector/core"
	"github.com/ajitpratap0/tablefactory/pkg/connector/factory"
	"github.com/ajitpratap0/tablefactory/pkg/connector/registry"
	"github.com/ajitpratap0/tablefactory/pkg/errors"
	"github.com/ajitpratap0/tablefactory/pkg/logger"
	"github.com/ajitpratap0/tablefactory/pkg/observability"

	// Register all built-in connectors
	_ "github.com/ajitpratap0/tablefactory/pkg/connector/destinations"
	_ "github.com/ajitpratap0/tablefactory/pkg/connector/sources"
)

var version = "0.1.0"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()
	var settingsFile string
	var settings *config.Settings

	root := &cobra.Command{
		Use:   "tablefactory",
		Short: "Inspect connector factories and validate table catalogs",
		Long: `tablefactory resolves catalog tables to connector factories, validates
their options and plans the resulting table sources.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.LoadSettings(v, settingsFile)
			if err != nil {
				return err
			}
			settings = s
			return logger.Init(logger.Config{
				Level:       s.Log.Level,
				Development: s.Log.Development,
				Encoding:    s.Log.Encoding,
				OutputPaths: []string{"stderr"},
			})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&settingsFile, "settings", "", "Path to a settings file (yaml, json or toml)")
	root.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	_ = v.BindPFlag("log.level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tablefactory v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered connector factories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Default()
			if err != nil {
				return err
			}
			infos, err := reg.Catalog()
			if err != nil {
				return err
			}
			if listJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", info.Identifier, strings.Join(info.Capabilities, ", "))
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print JSON")
	root.AddCommand(listCmd)

	var describeJSON bool
	describeCmd := &cobra.Command{
		Use:   "describe <identifier>",
		Short: "Show the options a connector factory accepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.Default()
			if err != nil {
				return err
			}
			info, err := reg.Info(args[0])
			if err != nil {
				return err
			}
			if describeJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			printInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
	describeCmd.Flags().BoolVar(&describeJSON, "json", false, "Print JSON")
	root.AddCommand(describeCmd)

	var validateJSON bool
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate every table of a catalog against the registered factories",
		Long: `Validate binds every table of the catalog to its connector factory, validates
its options and, for sources, requests a runtime provider for the given mode.

Example:
  tablefactory validate --catalog catalog.yaml --mode batch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings.Catalog == "" {
				return errors.New(errors.ErrorTypeConfig, "no catalog given, use --catalog or TABLEFACTORY_CATALOG")
			}
			mode := core.RuntimeMode(settings.Mode)
			if mode != core.RuntimeModeStreaming && mode != core.RuntimeModeBatch {
				return errors.Newf(errors.ErrorTypeConfig, "unknown runtime mode '%s', expected streaming or batch", settings.Mode)
			}

			if settings.Trace.Enabled {
				if err := observability.Init(observability.Config{
					ServiceName:    "tablefactory",
					ServiceVersion: version,
					Exporter:       "stdout",
					Writer:         cmd.ErrOrStderr(),
					SamplingRate:   settings.Trace.SamplingRate,
				}); err != nil {
					return err
				}
				defer func() { _ = observability.Shutdown(context.Background()) }()
			}

			catalog, err := config.LoadCatalog(settings.Catalog)
			if err != nil {
				return err
			}
			reg, err := registry.Default()
			if err != nil {
				return err
			}

			reports := validateCatalog(cmd.Context(), reg, catalog, mode)
			if validateJSON {
				if err := writeJSON(cmd.OutOrStdout(), reports); err != nil {
					return err
				}
			} else {
				printReports(cmd.OutOrStdout(), reports)
			}

			failed := 0
			for _, r := range reports {
				if r.Error != "" {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d tables failed validation", failed, len(reports))
			}
			return nil
		},
	}
	validateCmd.Flags().String("catalog", "", "Path to the catalog YAML file")
	validateCmd.Flags().String("mode", string(core.RuntimeModeStreaming), "Runtime mode (streaming or batch)")
	validateCmd.Flags().Bool("trace", false, "Print OpenTelemetry spans to stderr")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print JSON")
	bindFlags(v, validateCmd, map[string]string{
		"catalog":       "catalog",
		"mode":          "mode",
		"trace.enabled": "trace",
	})
	root.AddCommand(validateCmd)

	return root
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, keys map[string]string) {
	for key, flag := range keys {
		_ = v.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}

// TableReport is the validation outcome of one catalog table.
type TableReport struct {
	Table         string `json:"table"`
	Kind          string `json:"kind"`
	Connector     string `json:"connector"`
	Summary       string `json:"summary,omitempty"`
	ChangelogMode string `json:"changelog_mode,omitempty"`
	Bounded       *bool  `json:"bounded,omitempty"`
	Error         string `json:"error,omitempty"`
}

func validateCatalog(ctx context.Context, reg *registry.Registry, catalog *config.Catalog, mode core.RuntimeMode) []TableReport {
	log := logger.Component("validate")

	reports := make([]TableReport, 0, len(catalog.Tables))
	for _, def := range catalog.Tables {
		t := factory.Table{Name: def.Name, Options: def.Options, Schema: def.Schema}
		report := TableReport{
			Table:     def.Name,
			Kind:      config.KindSource,
			Connector: def.Options[core.ConnectorOption],
		}

		var err error
		if def.IsSink() {
			report.Kind = config.KindSink
			err = validateSink(ctx, reg, t, &report)
		} else {
			err = validateSource(ctx, reg, t, mode, &report)
		}
		if err != nil {
			report.Error = err.Error()
			log.Info("table failed validation", zap.String("table", def.Name), zap.Error(err))
		}
		reports = append(reports, report)
	}
	return reports
}

func validateSource(ctx context.Context, reg *registry.Registry, t factory.Table, mode core.RuntimeMode, report *TableReport) error {
	planned, err := factory.CreateTableSource(ctx, reg, t)
	if err != nil {
		return err
	}
	report.Summary = planned.Source().SummaryString()

	changelog, err := planned.Describe()
	if err != nil {
		return err
	}
	report.ChangelogMode = changelog.String()

	provider, err := planned.Provision(core.ScanContext{Mode: mode})
	if err != nil {
		return err
	}
	bounded := provider.IsBounded()
	report.Bounded = &bounded
	return nil
}

func validateSink(ctx context.Context, reg *registry.Registry, t factory.Table, report *TableReport) error {
	sink, err := factory.CreateTableSink(ctx, reg, t)
	if err != nil {
		return err
	}
	report.Summary = sink.SummaryString()
	report.ChangelogMode = sink.ChangelogMode(core.InsertOnly()).String()
	return nil
}

func printInfo(w io.Writer, info *registry.ConnectorInfo) {
	fmt.Fprintf(w, "%s (%s)\n", info.Identifier, strings.Join(info.Capabilities, ", "))
	if len(info.Options) == 0 {
		fmt.Fprintln(w, "  no options")
		return
	}
	for _, o := range info.Options {
		flag := "optional"
		if o.Required {
			flag = "required"
		}
		line := fmt.Sprintf("  %-32s %-8s %s", o.Key, flag, o.Type)
		if o.Default != "" {
			line += fmt.Sprintf(" (default %s)", o.Default)
		}
		fmt.Fprintln(w, line)
		if o.Description != "" {
			fmt.Fprintf(w, "      %s\n", o.Description)
		}
	}
}

func printReports(w io.Writer, reports []TableReport) {
	for _, r := range reports {
		if r.Error != "" {
			fmt.Fprintf(w, "FAIL %s [%s]: %s\n", r.Table, r.Connector, r.Error)
			continue
		}
		line := fmt.Sprintf("OK   %s [%s] %s changelog=%s", r.Table, r.Connector, r.Summary, r.ChangelogMode)
		if r.Bounded != nil {
			line += fmt.Sprintf(" bounded=%t", *r.Bounded)
		}
		fmt.Fprintln(w, line)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
