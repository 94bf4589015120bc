package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/threebody/internal/trajectory"
)

var csvHeader = []string{
	"time",
	"b0x", "b0y", "b0z",
	"b1x", "b1y", "b1z",
	"b2x", "b2y", "b2z",
}

// WriteCSV writes one row per frame. Values use the shortest
// representation that parses back to the same float64.
func WriteCSV(w io.Writer, frames []trajectory.Frame) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	row := make([]string, len(csvHeader))
	for _, f := range frames {
		row[0] = formatFloat(f.Time)
		for b, p := range f.Positions {
			o := 1 + 3*b
			row[o] = formatFloat(p.X)
			row[o+1] = formatFloat(p.Y)
			row[o+2] = formatFloat(p.Z)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

type ExportData struct {
	Run       RunMetadata  `json:"run"`
	Times     []float64    `json:"times"`
	Positions [][9]float64 `json:"positions"`
}

// ExportJSON writes the run's metadata and its positions, one row of
// nine coordinates per frame.
func ExportJSON(w io.Writer, meta RunMetadata, buf *trajectory.Buffer) error {
	frames := buf.Frames()
	data := ExportData{
		Run:       meta,
		Times:     make([]float64, len(frames)),
		Positions: make([][9]float64, len(frames)),
	}

	for i, f := range frames {
		data.Times[i] = f.Time
		for b, p := range f.Positions {
			data.Positions[i][3*b] = p.X
			data.Positions[i][3*b+1] = p.Y
			data.Positions[i][3*b+2] = p.Z
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
