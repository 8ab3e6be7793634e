package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/config"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/engine"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/server"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/internal/stats"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/constants"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/export"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/ingest"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/output"
	"github.com/rickyyue315/Kilo-ShoptoShop-Transfer/pkg/validation"
)

// version is stamped at build time.
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	inputPath := flag.String("input", "", "path to stock file (.xlsx or .csv)")
	modeFlag := flag.String("mode", "", "transfer mode override: conservative, enhanced, special")
	policyFlag := flag.String("group-policy", "", "group policy override: open, same-om, hd-restricted")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	exportPath := flag.String("export", "", "write the suggestion workbook to this .xlsx path")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "run the HTTP suggestion API instead of a batch run")
	address := flag.String("address", "", "HTTP listen address override (with -serve)")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	flag.Parse()

	if *serve {
		runServer(*serverConfigLocation, *address, *logLevel)
		return
	}

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := applyOverrides(conf, *modeFlag, *policyFlag, *outputFormatFlag, *exportPath); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, confErr := range conf.ValidateConfiguration() {
		logger.Fatal(confErr.Error(),
			zap.String("op", "main"),
		)
	}

	if *inputPath == "" {
		logger.Fatal("no input file given; pass -input with a .xlsx or .csv stock file",
			zap.String("op", "main"),
		)
	}

	table, err := ingest.ReadFile(*inputPath)
	if err != nil {
		logger.Fatal("failed to read input file",
			zap.String("op", "main"),
			zap.String("input", *inputPath),
			zap.Error(err),
		)
	}

	policy, err := engine.PolicyFor(conf.Engine.GroupPolicy)
	if err != nil {
		logger.Fatal("failed to resolve group policy",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	result, err := engine.Run(logger, table.Columns, table.Rows, engine.Options{
		Mode:        engine.Mode(conf.Engine.Mode),
		GroupPolicy: policy,
	})
	if err != nil {
		logger.Fatal("failed to compute transfer suggestions",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	summary := stats.Calculate(logger, result.Lines)

	switch conf.Output.Format {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result, summary)
	case constants.OutputFormatCSV:
		output.CsvFormat(result.Lines)
	}

	if conf.Export.Path != "" {
		if err := export.WriteFile(conf.Export.Path, result.Lines, summary); err != nil {
			logger.Fatal("failed to export workbook",
				zap.String("op", "main"),
				zap.String("path", conf.Export.Path),
				zap.Error(err),
			)
		}
		logger.Info("workbook exported",
			zap.String("op", "main"),
			zap.String("path", conf.Export.Path),
		)
	}
}

// applyOverrides copies non-empty CLI flag values over the loaded
// configuration. Each enumerated value is validated before it lands, so a
// bad flag fails fast instead of surviving until the config check.
func applyOverrides(conf *config.Configuration, mode, policy, format, exportPath string) error {
	if mode != "" {
		if err := validation.ValidateMode(mode); err != nil {
			return err
		}
		conf.Engine.Mode = mode
	}
	if policy != "" {
		if err := validation.ValidateGroupPolicy(policy); err != nil {
			return err
		}
		conf.Engine.GroupPolicy = policy
	}
	if format != "" {
		if err := validation.ValidateOutputFormat(format); err != nil {
			return err
		}
		conf.Output.Format = format
	}
	if exportPath != "" {
		conf.Export.Path = exportPath
	}
	return nil
}

func runServer(configLocation, addressOverride, logLevelOverride string) {
	cfg, err := server.LoadConfig(configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", configLocation, err)
		os.Exit(1)
	}
	if addressOverride != "" {
		cfg.Address = addressOverride
	}

	logger, err := initializeLogger(cfg.Logging, logLevelOverride)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	handler := server.NewHandler(logger, cfg.UploadSizeBytes(), version)
	logger.Info("starting suggestion API",
		zap.String("op", "main"),
		zap.String("address", cfg.Address),
		zap.String("version", version),
	)
	if err := http.ListenAndServe(cfg.Address, handler); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
