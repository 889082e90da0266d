package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mnistpng/internal/idx"
)

type inspectReport struct {
	Image *imageReport `json:"image,omitempty"`
	Label *labelReport `json:"label,omitempty"`
}

type imageReport struct {
	Path    string `json:"path"`
	Records uint32 `json:"records"`
	Rows    uint32 `json:"rows"`
	Columns uint32 `json:"columns"`
}

type labelReport struct {
	Path      string         `json:"path"`
	Records   int            `json:"records"`
	Histogram map[string]int `json:"histogram"`
}

func inspectCmd() *cli.Command {
	var (
		inspectImage string
		inspectLabel string
		asJSON       bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show the header and label distribution of IDX data files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "image",
				Aliases:     []string{"i"},
				Usage:       "path to MNIST image file",
				Destination: &inspectImage,
			},
			&cli.StringFlag{
				Name:        "label",
				Aliases:     []string{"l"},
				Usage:       "path to MNIST label file",
				Destination: &inspectLabel,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit the report as JSON",
				Destination: &asJSON,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if inspectImage == "" && inspectLabel == "" {
				return fmt.Errorf("at least one of --image or --label is required")
			}

			var report inspectReport

			if inspectImage != "" {
				if kind := idx.Classify(inspectImage); kind != idx.KindImage {
					return fmt.Errorf("%s is not an MNIST image file (classified as %s)", inspectImage, kind)
				}
				h, err := idx.ReadHeader(inspectImage)
				if err != nil {
					return err
				}
				report.Image = &imageReport{
					Path:    inspectImage,
					Records: h.Records,
					Rows:    h.Rows,
					Columns: h.Columns,
				}
			}

			if inspectLabel != "" {
				if kind := idx.Classify(inspectLabel); kind != idx.KindLabel {
					return fmt.Errorf("%s is not an MNIST label file (classified as %s)", inspectLabel, kind)
				}
				hist, n, err := idx.Stats(inspectLabel)
				if err != nil {
					return err
				}
				report.Label = &labelReport{
					Path:      inspectLabel,
					Records:   n,
					Histogram: hist.Nonzero(),
				}
			}

			if asJSON {
				b, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(os.Stdout, string(b))
				return err
			}

			printReport(report)
			return nil
		},
	}
}

func printReport(report inspectReport) {
	if report.Image != nil {
		fmt.Printf("Image file: %s\n", report.Image.Path)
		fmt.Printf("  records=%d | rows=%d | columns=%d\n",
			report.Image.Records, report.Image.Rows, report.Image.Columns)
	}
	if report.Label != nil {
		fmt.Printf("Label file: %s\n", report.Label.Path)
		fmt.Printf("  records=%d\n", report.Label.Records)

		labels := make([]string, 0, len(report.Label.Histogram))
		for label := range report.Label.Histogram {
			labels = append(labels, label)
		}
		sort.Slice(labels, func(i, j int) bool {
			a, _ := strconv.Atoi(labels[i])
			b, _ := strconv.Atoi(labels[j])
			return a < b
		})
		for _, label := range labels {
			fmt.Printf("  label %s: %d\n", label, report.Label.Histogram[label])
		}
	}
}
