package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnistpng/internal/export"
	"github.com/samcharles93/mnistpng/internal/idx"
)

func convertCmd() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Decode an IDX image/label pair into one PNG file per record",
		Flags: append(append(datasetFlags(),
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "directory for the generated PNG files",
				Destination: &outputPath,
			},
			&cli.BoolFlag{
				Name:        "randomise",
				Aliases:     []string{"r"},
				Usage:       "prefix output file names with a random disambiguator",
				Destination: &randomise,
			},
			&cli.Int64Flag{
				Name:        "number",
				Aliases:     []string{"n"},
				Usage:       "how many records to process (0 or less means all)",
				Destination: &limit,
			},
		), loggingFlags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyConvertConfig(cmd, LoadConfig())
			log := newLogger()

			if kind := idx.Classify(imagePath); kind != idx.KindImage {
				return fmt.Errorf("%s is not an MNIST image file (classified as %s)", imagePath, kind)
			}
			if kind := idx.Classify(labelPath); kind != idx.KindLabel {
				return fmt.Errorf("%s is not an MNIST label file (classified as %s)", labelPath, kind)
			}

			dir, err := resolveOutputDir(outputPath)
			if err != nil {
				return err
			}

			ds, err := idx.Open(imagePath, labelPath)
			if err != nil {
				return err
			}
			defer func() { _ = ds.Close() }()

			h := ds.Header()
			log.Info("processing",
				"records", h.Records,
				"rows", h.Rows,
				"columns", h.Columns,
				"output", dir,
			)

			sum, err := export.New(dir, randomise).Run(ds, int(limit))
			if err != nil {
				log.Error("conversion aborted", "written", sum.Written, "error", err)
				return err
			}

			log.Info("done", "written", sum.Written, "labels", len(sum.Labels))
			return nil
		},
	}
}
