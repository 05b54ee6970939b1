// Package export writes trajectories as CSV or JSON to an io.Writer.
// Nothing here creates files; callers pass os.Stdout or a buffer.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/covkin/internal/dynamo"
)

// Document is the JSON form of one trajectory. Sweep output sets Label and,
// for a failed case, Error; its trajectory is then the partial one, if any.
type Document struct {
	Label      string             `json:"label,omitempty"`
	Error      string             `json:"error,omitempty"`
	Variant    string             `json:"variant,omitempty"`
	Integrator string             `json:"integrator,omitempty"`
	Species    []string           `json:"species"`
	Params     map[string]float64 `json:"params,omitempty"`
	Initial    []float64          `json:"initial"`
	Samples    int                `json:"samples"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Stats      dynamo.Stats       `json:"stats"`
}

// NewDocument copies tr into its JSON form.
func NewDocument(variant, integrator string, tr *dynamo.Trajectory) Document {
	doc := Document{
		Variant:    variant,
		Integrator: integrator,
		Species:    tr.Species,
		Params:     tr.Params,
		Initial:    tr.Initial,
		Samples:    tr.Len(),
		Times:      tr.Times,
		States:     make([][]float64, len(tr.States)),
		Metrics:    tr.Metrics,
		Stats:      tr.Stats,
	}
	for i, s := range tr.States {
		doc.States[i] = s
	}
	return doc
}

// NewCaseDocument is the entry for one sweep case. tr may be nil when the
// case failed before integrating.
func NewCaseDocument(label, variant, integrator string, tr *dynamo.Trajectory, err error) Document {
	doc := Document{Variant: variant, Integrator: integrator}
	if tr != nil {
		doc = NewDocument(variant, integrator, tr)
	}
	doc.Label = label
	if err != nil {
		doc.Error = err.Error()
	}
	return doc
}

// WriteJSON encodes a Document, or a slice of them, indented.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// columns resolves the requested species to state indices; an empty
// selection means every species.
func columns(tr *dynamo.Trajectory, species []string) ([]string, []int, error) {
	if len(species) == 0 {
		species = tr.Species
	}
	idx := make([]int, len(species))
	for i, name := range species {
		j, ok := tr.Index(name)
		if !ok {
			return nil, nil, fmt.Errorf("export: species %q not in trajectory", name)
		}
		idx[i] = j
	}
	return species, idx, nil
}

// WriteCSV writes one row per sample: time in seconds and minutes followed
// by the selected species.
func WriteCSV(w io.Writer, tr *dynamo.Trajectory, species ...string) error {
	names, idx, err := columns(tr, species)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := append([]string{"time_s", "time_min"}, names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	minutes := tr.Minutes()
	for i, x := range tr.States {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(tr.Times[i]), formatFloat(minutes[i]))
		for _, j := range idx {
			row = append(row, formatFloat(x[j]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ErrNoTrajectories is returned when every column of a comparison failed.
var ErrNoTrajectories = errors.New("export: no trajectories to compare")

// WriteComparisonCSV writes one species from several trajectories side by
// side, one column per label. Nil trajectories give empty cells; the rest
// must share the sample times of the first non-nil one.
func WriteComparisonCSV(w io.Writer, species string, labels []string, trs []*dynamo.Trajectory) error {
	if len(labels) != len(trs) {
		return fmt.Errorf("%w: %d labels for %d trajectories", dynamo.ErrDimensionMismatch, len(labels), len(trs))
	}
	if len(trs) == 0 {
		return nil
	}

	var ref *dynamo.Trajectory
	for _, tr := range trs {
		if tr != nil {
			ref = tr
			break
		}
	}
	if ref == nil {
		return ErrNoTrajectories
	}

	series := make([][]float64, len(trs))
	for i, tr := range trs {
		if tr == nil {
			continue
		}
		if tr.Len() != ref.Len() {
			return fmt.Errorf("%w: %s has %d samples, want %d",
				dynamo.ErrDimensionMismatch, labels[i], tr.Len(), ref.Len())
		}
		s, err := tr.Series(species)
		if err != nil {
			return err
		}
		series[i] = s
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"time_s", "time_min"}, labels...)); err != nil {
		return err
	}
	minutes := ref.Minutes()
	for k := range ref.Times {
		row := []string{formatFloat(ref.Times[k]), formatFloat(minutes[k])}
		for _, s := range series {
			if s == nil {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(s[k]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses output of WriteCSV back into a trajectory.
func ReadCSV(r io.Reader) (*dynamo.Trajectory, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, fmt.Errorf("export: missing header")
	}

	tr := &dynamo.Trajectory{Species: records[0][2:]}
	for line, rec := range records[1:] {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("export: line %d: %w", line+2, err)
		}
		x := make(dynamo.State, len(rec)-2)
		for j, field := range rec[2:] {
			if x[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("export: line %d: %w", line+2, err)
			}
		}
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, x)
	}
	return tr, nil
}
