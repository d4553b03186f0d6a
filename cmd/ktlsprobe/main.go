// Command ktlsprobe reports which kTLS cipher suites the running kernel
// will accept, using pkg/ktls's capability probe.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keploy-labs/ktlscore/internal/config"
	"github.com/keploy-labs/ktlscore/internal/logger"
	"github.com/keploy-labs/ktlscore/pkg/ktls"
)

var (
	cfgFile string
	verbose bool
	log     *zap.Logger
	logFile *os.File
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if log != nil {
			logger.LogError(log, err, "ktlsprobe failed")
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ktlsprobe",
		Short: "Report which kTLS cipher suites this kernel supports",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, f, err := logger.New("ktlsprobe.log")
			if err != nil {
				return err
			}
			log, logFile = l, f
			if verbose {
				if l, err := logger.ChangeLogLevel(zap.DebugLevel); err == nil {
					log = l
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logFile != nil {
				return logFile.Close()
			}
			return nil
		},
		RunE: runProbe,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return root
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Verbose && !verbose {
		verbose = true
		if l, err := logger.ChangeLogLevel(zap.DebugLevel); err == nil {
			log = l
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	result, err := ktls.Probe(ctx)
	if err != nil {
		logger.LogError(log, err, "capability probe failed")
		return err
	}

	printResult(cmd, result, cfg.IncludeUnsupported)
	return nil
}

func printResult(cmd *cobra.Command, result ktls.Compatibility, includeUnsupported bool) {
	suites := make([]string, 0, len(result))
	for suite := range result {
		suites = append(suites, suite.String())
	}
	sort.Strings(suites)

	byName := make(map[string]bool, len(result))
	for suite, ok := range result {
		byName[suite.String()] = ok
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "SUITE\tSUPPORTED")
	for _, name := range suites {
		ok := byName[name]
		if !ok && !includeUnsupported {
			continue
		}
		fmt.Fprintf(out, "%s\t%v\n", name, ok)
	}
}
