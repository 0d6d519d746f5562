package main

import (
	"fmt"
	"io/fs"
	"os"

	"bennypowers.dev/cvf"
	"bennypowers.dev/cvf/internal/log"
	"bennypowers.dev/cvf/internal/version"
	"github.com/spf13/cobra"
)

var (
	flagFallbacks    []string
	flagConfig       string
	flagDir          string
	flagPrefix       string
	flagGroupMarkers []string
	flagWrite        bool
	flagVerbose      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "css-var-fallback [files...]",
	Short: "Rewrite var() references to carry computed fallback values",
	Long: "css-var-fallback resolves CSS custom properties against an ordered list\n" +
		"of fallback sources (CSS, HTML, or DTCG token files) and rewrites each\n" +
		"resolvable var() reference in the target documents to\n" +
		"var(<name>, <resolved value>). Rewritten documents print to stdout\n" +
		"unless -w is given.",
	Version:       version.GetFullVersion(),
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetLevel(log.LevelDebug)
		}
	},
	RunE: runProcess,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&flagFallbacks, "fallbacks", "f", nil, "fallback source path or glob (repeatable, later sources win)")
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "explicit config file (default: .config/css-var-fallback.{json,yaml,yml} or package.json)")
	rootCmd.PersistentFlags().StringVarP(&flagDir, "dir", "d", "", "base directory for resolving fallback identifiers")
	rootCmd.PersistentFlags().StringVarP(&flagPrefix, "prefix", "p", "", "variable name prefix for DTCG token sources")
	rootCmd.PersistentFlags().StringSliceVar(&flagGroupMarkers, "group-markers", nil, "DTCG group marker names")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "enable debug logging")

	rootCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, "rewrite files in place instead of printing to stdout")

	rootCmd.AddCommand(inspectCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	opts, err := transformerOptions()
	if err != nil {
		return err
	}

	transformer := cvf.New(opts)

	for _, path := range args {
		if err := processFile(transformer, path); err != nil {
			return err
		}
	}
	return nil
}

// processFile runs one target document through the transformer and
// either prints the result or writes it back in place.
func processFile(transformer *cvf.Transformer, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading user-named target files
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result := transformer.Process(cvf.Document{Path: path, Content: string(data)})

	if !flagWrite {
		fmt.Print(result.Content)
		return nil
	}

	if !result.Modified {
		log.Debug("Unchanged: %s", path)
		return nil
	}

	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(result.Content), perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	log.Info("Rewrote: %s", path)
	return nil
}

// transformerOptions builds cvf.Options from the config file (explicit
// or discovered) with command line flags taking precedence.
func transformerOptions() (cvf.Options, error) {
	var opts cvf.Options

	if flagConfig != "" {
		loaded, err := cvf.LoadConfigFile(flagConfig)
		if err != nil {
			return opts, err
		}
		opts = *loaded
	} else {
		root := flagDir
		if root == "" {
			wd, err := os.Getwd()
			if err != nil {
				return opts, fmt.Errorf("resolving working directory: %w", err)
			}
			root = wd
		}
		loaded, err := cvf.LoadConfig(root)
		if err != nil {
			return opts, err
		}
		if loaded != nil {
			opts = *loaded
		}
	}

	if len(flagFallbacks) > 0 {
		opts.Fallbacks = make([]any, 0, len(flagFallbacks))
		for _, identifier := range flagFallbacks {
			opts.Fallbacks = append(opts.Fallbacks, identifier)
		}
	}
	if flagDir != "" {
		opts.Dir = flagDir
	}
	if flagPrefix != "" {
		opts.Prefix = flagPrefix
	}
	if len(flagGroupMarkers) > 0 {
		opts.GroupMarkers = flagGroupMarkers
	}

	opts.Warn = func(err error) {
		log.Warn("%v", err)
	}

	return opts, nil
}
