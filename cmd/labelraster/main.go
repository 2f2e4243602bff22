package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"syscall"

	"github.com/dargueta/labelraster"
	"github.com/dargueta/labelraster/encoder"
	"github.com/urfave/cli/v2"
)

func main() {
	cli := cli.App{
		Name:  "labelraster",
		Usage: "Convert raw 1-bit raster pages into label printer commands",
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode raster pages for a printer",
				Action:    encodeRaster,
				ArgsUsage: "[RASTER_FILE]",
				Flags:     encodeFlags,
			},
			{
				Name:   "models",
				Usage:  "List the supported printer models",
				Action: listModels,
			},
		},
	}

	err := cli.Run(os.Args)
	if err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}

var encodeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "model",
		Aliases:  []string{"m"},
		Usage:    "printer model name or cupsModelNumber",
		Required: true,
	},
	&cli.IntFlag{
		Name:     "bytes-per-line",
		Aliases:  []string{"b"},
		Usage:    "length of one scanline, in bytes",
		Required: true,
	},
	&cli.IntFlag{
		Name:     "height",
		Usage:    "number of scanlines per page",
		Required: true,
	},
	&cli.IntFlag{
		Name:  "width",
		Usage: "page width in dots (default: 8 * bytes-per-line)",
	},
	&cli.IntFlag{
		Name:  "resolution",
		Usage: "printer resolution, in dots per inch",
		Value: 203,
	},
	&cli.IntFlag{
		Name:  "copies",
		Usage: "number of copies of each page",
		Value: 1,
	},
	&cli.IntFlag{
		Name:  "darkness",
		Usage: "print darkness in percent, 0 for the printer default",
	},
	&cli.StringFlag{
		Name:  "media-type",
		Usage: "media type, e.g. Direct or Thermal",
	},
	&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "write printer commands to this file instead of stdout",
	},
	&cli.StringFlag{
		Name:  "report",
		Usage: "write a CSV summary of every page to this file",
	},
	&cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "don't print progress messages",
	},
}

func listModels(context *cli.Context) error {
	for _, model := range labelraster.Models() {
		fmt.Printf("%-16s %#04x  %s\n", model, int(model), model.Description())
	}
	return nil
}

func encodeRaster(context *cli.Context) error {
	model, err := labelraster.ParseModel(context.String("model"))
	if err != nil {
		return err
	}

	resolution := context.Int("resolution")
	header := labelraster.PageHeader{
		BytesPerLine: context.Int("bytes-per-line"),
		Width:        context.Int("width"),
		Height:       context.Int("height"),
		Resolution:   [2]int{resolution, resolution},
		Copies:       context.Int("copies"),
		Darkness:     context.Int("darkness"),
		MediaType:    context.String("media-type"),
	}
	// Fail before opening any files.
	if err := header.Validate(); err != nil {
		return err
	}

	input := os.Stdin
	if path := context.Args().First(); path != "" {
		input, err = os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open raster file `%s`: %w", path, err)
		}
		defer input.Close()
	}

	output := os.Stdout
	if path := context.String("output"); path != "" {
		output, err = os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to open output file `%s`: %w", path, err)
		}
		defer output.Close()
	}

	logger := log.New(os.Stderr, "", 0)
	if context.Bool("quiet") {
		logger.SetOutput(io.Discard)
	}

	cancel := &encoder.CancelFlag{}
	stop := cancel.CancelOnSignal(syscall.SIGTERM, os.Interrupt)
	defer stop()

	writer := bufio.NewWriter(output)
	summaries, err := encodePages(
		bufio.NewReader(input),
		writer,
		model,
		header,
		encoder.WithLogger(logger),
		encoder.WithCancelFlag(cancel),
	)
	flushErr := writer.Flush()
	if err == nil && flushErr != nil {
		err = labelraster.ErrOutputFailed.Wrap(flushErr)
	}

	if path := context.String("report"); path != "" {
		if reportErr := writeReportFile(path, summaries); reportErr != nil && err == nil {
			err = reportErr
		}
	}
	return err
}

// encodePages encodes consecutive pages from `input` until it runs out. A
// truncated final page is only reported in the summaries. A page that fails
// for any other reason that doesn't end the job is skipped, and the first such
// error is returned once every page has been tried.
func encodePages(
	input *bufio.Reader,
	output io.Writer,
	model labelraster.Model,
	header labelraster.PageHeader,
	options ...encoder.Option,
) ([]encoder.PageSummary, error) {
	enc, err := encoder.New(model, output, options...)
	if err != nil {
		return nil, err
	}

	var pageErr error
	summaries := []encoder.PageSummary{}
	for {
		if _, err := input.Peek(1); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return summaries, fmt.Errorf("failed to read raster: %w", err)
		}

		source := encoder.NewReaderSource(input, header.BytesPerLine)
		summary, err := enc.EncodePage(header, source)
		if labelraster.IsJobFatal(err) {
			return summaries, err
		}
		summaries = append(summaries, summary)
		if summary.Canceled {
			break
		}

		if err != nil && !errors.Is(err, labelraster.ErrTruncatedPage) {
			if pageErr == nil {
				pageErr = err
			}
			unread := int64(header.Height-summary.RowsRead) * int64(header.BytesPerLine)
			_, skipErr := io.CopyN(io.Discard, input, unread)
			if skipErr != nil && !errors.Is(skipErr, io.EOF) {
				return summaries, fmt.Errorf("failed to read raster: %w", skipErr)
			}
		}
	}

	if err := enc.EndJob(); err != nil {
		return summaries, err
	}
	return summaries, pageErr
}
