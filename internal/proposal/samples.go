package proposal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SamplesFile is the artifact written by WriteSamples.
const SamplesFile = "samples.csv"

// WriteSamples writes points as CSV columns ordered by names and returns the
// file path.
func WriteSamples(dir string, names []string, points []Point) (string, error) {
	path := filepath.Join(dir, SamplesFile)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create samples file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(names); err != nil {
		return "", fmt.Errorf("write samples header: %w", err)
	}

	row := make([]string, len(names))
	for _, point := range points {
		for i, name := range names {
			row[i] = strconv.FormatFloat(point[name], 'g', -1, 64)
		}
		if err := writer.Write(row); err != nil {
			return "", fmt.Errorf("write sample: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush samples: %w", err)
	}
	return path, file.Close()
}
