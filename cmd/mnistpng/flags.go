package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnistpng/internal/logger"
)

var (
	imagePath  string
	labelPath  string
	outputPath string
	randomise  bool
	limit      int64
	logLevel   string
	logFormat  string
	debug      bool
)

func datasetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "image",
			Aliases:     []string{"i"},
			Usage:       "path to uncompressed MNIST image file",
			Destination: &imagePath,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "label",
			Aliases:     []string{"l"},
			Usage:       "path to uncompressed MNIST label file",
			Destination: &labelPath,
			Required:    true,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	default:
		return logger.Pretty(os.Stderr, level)
	}
}
