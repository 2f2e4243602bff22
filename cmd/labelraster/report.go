package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dargueta/labelraster/encoder"
	"github.com/gocarina/gocsv"
)

type pageRecord struct {
	Page         int   `csv:"page"`
	RowsDeclared int   `csv:"rows_declared"`
	RowsRead     int   `csv:"rows_read"`
	RowsEncoded  int   `csv:"rows_encoded"`
	RowsBlank    int   `csv:"rows_blank"`
	RowsRepeated int   `csv:"rows_repeated"`
	FeedCommands int   `csv:"feed_commands"`
	BytesWritten int64 `csv:"bytes_written"`
	Truncated    bool  `csv:"truncated"`
	Canceled     bool  `csv:"canceled"`
}

func writeReport(summaries []encoder.PageSummary, output io.Writer) error {
	records := make([]*pageRecord, 0, len(summaries))
	for _, summary := range summaries {
		records = append(records, &pageRecord{
			Page:         summary.Number,
			RowsDeclared: summary.RowsDeclared,
			RowsRead:     summary.RowsRead,
			RowsEncoded:  summary.RowsEncoded,
			RowsBlank:    summary.RowsBlank,
			RowsRepeated: summary.RowsRepeated,
			FeedCommands: summary.FeedCommands,
			BytesWritten: summary.BytesWritten,
			Truncated:    summary.Truncated,
			Canceled:     summary.Canceled,
		})
	}
	return gocsv.Marshal(&records, output)
}

func writeReportFile(path string, summaries []encoder.PageSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report `%s`: %w", path, err)
	}
	defer file.Close()
	return writeReport(summaries, file)
}
