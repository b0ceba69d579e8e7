package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/cinematch/internal/models"
)

// RatingsShape returns rows x columns of a ratings CSV (header excluded from rows).
// Ratings are reported for information only and never influence recommendations.
func RatingsShape(path string) (models.Shape, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Shape{}, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	head, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return models.Shape{}, nil
	}
	if err != nil {
		return models.Shape{}, fmt.Errorf("failed to read ratings header: %w", err)
	}
	shape := models.Shape{Columns: len(head)}
	for {
		_, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return models.Shape{}, fmt.Errorf("failed to read ratings row %d: %w", shape.Rows+1, err)
		}
		shape.Rows++
	}
	return shape, nil
}
