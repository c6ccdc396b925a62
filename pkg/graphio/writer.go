package graphio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

func WriteCSV(filePath string, headers []string, data [][]string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range data {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	return nil
}

// WriteTallyCSV writes a seat-count frequency table in ascending seat order.
func WriteTallyCSV(filePath string, counts map[int]int) error {
	var seats []int
	for s := range counts {
		seats = append(seats, s)
	}
	sort.Ints(seats)

	rows := make([][]string, len(seats))
	for i, s := range seats {
		rows[i] = []string{strconv.Itoa(s), strconv.Itoa(counts[s])}
	}

	return WriteCSV(filePath, []string{"rep_seats", "plans"}, rows)
}
