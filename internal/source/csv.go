// Package source builds host documents from external row data for the demo
// binary. The selection controller never reads from here.
package source

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jask/rowmark/internal/document"
)

// LoadCSV reads every record of r into a container. When header is true the
// first record becomes the container header.
func LoadCSV(r io.Reader, header bool) (*document.Container, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true

	c := document.NewContainer(nil)
	first := true
	for {
		rec, err := csvr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if first && header {
			c.Header = trimAll(rec)
			first = false
			continue
		}
		first = false
		c.Append(document.NewRow(trimAll(rec)...))
	}
	return c, nil
}

// LoadCSVFile opens path and calls LoadCSV.
func LoadCSVFile(path string, header bool) (*document.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return LoadCSV(f, header)
}

func trimAll(rec []string) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
