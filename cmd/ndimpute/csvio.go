package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/uyouii/ndimpute/model"
	"github.com/uyouii/ndimpute/utils"
)

// readValues reads a value,status table with a header row. Status is either the
// ternary code -1/0/1 or one of observed, left, right.
func readValues(r io.Reader) ([]float64, []model.Status, error) {
	rows, err := readTable(r, "value", "status")
	if err != nil {
		return nil, nil, err
	}
	values := make([]float64, len(rows))
	statuses := make([]model.Status, len(rows))
	for i, row := range rows {
		if values[i], err = parseFloat(row[0]); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if statuses[i], err = parseStatus(row[1]); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return values, statuses, nil
}

// readBounds reads a left,right table with a header row, inf and -inf are accepted.
func readBounds(r io.Reader) ([]model.Bounds, error) {
	rows, err := readTable(r, "left", "right")
	if err != nil {
		return nil, err
	}
	bounds := make([]model.Bounds, len(rows))
	for i, row := range rows {
		if bounds[i].Left, err = parseFloat(row[0]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if bounds[i].Right, err = parseFloat(row[1]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return bounds, nil
}

// readTable returns the named columns of every data row, in the order asked for.
func readTable(r io.Reader, columns ...string) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make([]int, len(columns))
	for i, name := range columns {
		index[i] = -1
		for j, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				index[i] = j
				break
			}
		}
		if index[i] < 0 {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = make([]string, len(columns))
		for k, j := range index {
			rows[i][k] = strings.TrimSpace(rec[j])
		}
	}
	return rows, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q: %w", s, err)
	}
	return v, nil
}

func parseStatus(s string) (model.Status, error) {
	switch strings.ToLower(s) {
	case "observed", "o":
		return model.Observed, nil
	case "left", "l":
		return model.LeftCensored, nil
	case "right", "r":
		return model.RightCensored, nil
	}
	code, err := strconv.Atoi(s)
	if err != nil {
		return model.Observed, fmt.Errorf("status %q", s)
	}
	return model.StatusFromTernary(code)
}

// writeResult rounds to digits decimals, a negative digits keeps full precision.
func writeResult(w io.Writer, res *model.Result, digits int) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"value", "imputed"}); err != nil {
		return err
	}
	for i, v := range res.Values {
		if err := writer.Write([]string{formatFloat(v, digits), strconv.FormatBool(res.Imputed[i])}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeSurvival(w io.Writer, points, survival []float64, digits int) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"t", "survival"}); err != nil {
		return err
	}
	for i, t := range points {
		if err := writer.Write([]string{formatFloat(t, -1), formatFloat(survival[i], digits)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64, digits int) string {
	if digits >= 0 {
		v = utils.FormatFloat(v, int32(digits))
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
