package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	"github.com/dargueta/labelraster/utilities/compression"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(
			os.Stderr,
			"Expand the graphic downloaded by a ZPL job into raw scanlines.\nUsage: %s input-file output-file\n",
			os.Args[0])
		os.Exit(1)
	}

	sourceFilePath := os.Args[1]
	outputFilePath := os.Args[2]

	job, errSrc := os.ReadFile(sourceFilePath)
	if errSrc != nil {
		fmt.Fprintf(
			os.Stderr, "Failed to open file for reading: `%v`: %s\n", sourceFilePath, errSrc)
		os.Exit(1)
	}

	rows, err := decodeGraphic(job)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error expanding graphic: %s\n", err)
		os.Exit(2)
	}

	outFile, errOut := os.Create(outputFilePath)
	if errOut != nil {
		fmt.Fprintf(
			os.Stderr, "Failed to open file for writing: `%v`: %s\n", outputFilePath, errOut)
		os.Exit(1)
	}
	defer outFile.Close()

	nWritten := 0
	for _, row := range rows {
		n, err := outFile.Write(row)
		nWritten += n
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %s\n", err)
			os.Exit(2)
		}
	}

	fmt.Printf("Expanded %d rows to %d bytes.\n", len(rows), nWritten)
}

// decodeGraphic finds the first ~DG command in a ZPL job and decodes its data.
// The data ends at the next ^ or ~ command.
func decodeGraphic(job []byte) ([][]byte, error) {
	start := bytes.Index(job, []byte("~DG"))
	if start < 0 {
		return nil, fmt.Errorf("no ~DG command found")
	}

	lineEnd := bytes.IndexByte(job[start:], '\n')
	if lineEnd < 0 {
		return nil, fmt.Errorf("~DG command isn't terminated")
	}

	// ~DGname,total,bytes-per-row,
	fields := bytes.Split(job[start+3:start+lineEnd], []byte(","))
	if len(fields) < 3 {
		return nil, fmt.Errorf("malformed ~DG command %q", job[start:start+lineEnd])
	}
	rowLength, err := strconv.Atoi(string(bytes.TrimSpace(fields[2])))
	if err != nil || rowLength <= 0 {
		return nil, fmt.Errorf("bad bytes per row %q", fields[2])
	}

	data := job[start+lineEnd+1:]
	if end := bytes.IndexAny(data, "^~"); end >= 0 {
		data = data[:end]
	}
	return compression.DecodeHexRLE(bytes.TrimSpace(data), rowLength)
}
