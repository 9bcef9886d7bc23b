package main

import (
	"fmt"
	"os"

	"github.com/anoideaopen/delegate/core/logger"
	"github.com/anoideaopen/delegate/internal/config"
	"github.com/anoideaopen/delegate/internal/gen"
	"github.com/anoideaopen/delegate/version"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type cliConfig struct {
	logLevel string
	dir      string
	types    []string
	pkg      string
	output   string
}

func newRootCmd() *cobra.Command {
	cfg := cliConfig{logLevel: "warning"}

	var log *logrus.Logger

	rootCmd := &cobra.Command{
		Use:   "proxygen [pattern]",
		Short: "proxygen - generate delegate adapters for Go interfaces",
		Long: `Generates, for every selected interface I of the package, an IProxy type
that implements I on top of a *proxy.Proxy: methods the delegate implements
are forwarded, the others return proxy defaults.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			log, err = logger.New(cfg.logLevel, config.LogFormatText)
			if err != nil {
				return err
			}

			log.SetOutput(cmd.ErrOrStderr())

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "."
			if len(args) == 1 {
				pattern = args[0]
			}

			fields := logrus.Fields{"dir": cfg.dir, "pattern": pattern, "types": cfg.types}
			log.WithFields(fields).Debug("generating adapters")

			src, err := gen.Generate(gen.Config{
				Dir:     cfg.dir,
				Pattern: pattern,
				Types:   cfg.types,
				Package: cfg.pkg,
			})
			if err != nil {
				return err
			}

			if cfg.output == "" {
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}

			if err = os.WriteFile(cfg.output, src, 0o644); err != nil { //nolint:gosec
				return fmt.Errorf("write %s: %w", cfg.output, err)
			}

			log.WithFields(fields).WithField("output", cfg.output).Info("adapters written")

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.logLevel, "log-level", cfg.logLevel, "Log messages including and over the specified level: debug, info, warn, error, fatal, panic")

	rootCmd.Flags().StringVar(&cfg.dir, "dir", "", "Directory the package pattern is resolved in")
	rootCmd.Flags().StringSliceVar(&cfg.types, "type", nil, "Interface to generate an adapter for, repeatable; all exported interfaces when omitted")
	rootCmd.Flags().StringVar(&cfg.pkg, "package", "", "Package name of the generated file, defaults to the source package")
	rootCmd.Flags().StringVarP(&cfg.output, "output", "o", "", "Output file, stdout when omitted")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the proxygen build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bi, err := version.BuildInfo()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), version.Summarize(bi))

			return err
		},
	}
}
