package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yumyai/goabund/internal/config"
	"github.com/yumyai/goabund/internal/util"
	"github.com/yumyai/goabund/logger"
	"github.com/yumyai/goabund/pkg/pipeline"
	"go.uber.org/zap"
)

const VERSION = "0.1.0"

var (
	inputPath  string
	outputPath string
	configPath string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "goabund",
	Short:         "GO term abundance of phase I vs phase II expression",
	Version:       VERSION,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Join, aggregate and chart the spreadsheets of an input directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := run()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("goabund", VERSION)
	},
}

func init() {
	runCmd.Flags().StringVar(&inputPath, "input-path", "", "directory holding the input spreadsheets (env "+config.EnvInputPath+")")
	runCmd.Flags().StringVar(&outputPath, "output-path", "", "directory the CSVs and plots are written to (env "+config.EnvOutputPath+")")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run configuration (env "+config.EnvConfig+")")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (env "+config.EnvLogLevel+")")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func run() error {
	// Try load env
	dotenvErr := godotenv.Load()

	cfg, err := config.Load(config.Resolve(configPath, config.EnvConfig))
	if err != nil {
		return err
	}

	level := config.Resolve(logLevel, config.EnvLogLevel)
	if level == "" {
		level = cfg.LogLevel
	}
	zapLevel, err := logger.ParseLevel(level)
	if err != nil {
		return err
	}
	if err := logger.InitLogger(zapLevel); err != nil {
		return err
	}

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	in := config.Resolve(inputPath, config.EnvInputPath)
	out := config.Resolve(outputPath, config.EnvOutputPath)
	if in == "" || out == "" {
		return errors.New("both --input-path and --output-path are required")
	}
	if !util.DirExists(in) {
		return fmt.Errorf("input path %s is not an existing directory", in)
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if !util.DirExists(out) {
		return fmt.Errorf("output path %s is not a directory", out)
	}

	p := pipeline.New(cfg)
	logger.Info("Start:", zap.String("Version", VERSION), zap.String("run_id", p.RunID()),
		zap.String("input", in), zap.String("output", out))

	res, err := p.Run(in, out)
	if err != nil {
		logger.Error("Run failed", zap.String("run_id", p.RunID()), zap.Error(err))
		return err
	}
	for _, s := range res.Steps {
		fmt.Printf("%-10s %s\n", s.Name, s.Summary)
	}
	return nil
}
