package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/covkin/internal/dynamo"
)

func sample() *dynamo.Trajectory {
	return &dynamo.Trajectory{
		Times:   []float64{0, 60, 120},
		Species: []string{"E", "I", "P"},
		States: []dynamo.State{
			{0.02, 0.05, 0},
			{0.004, 0.034, 1.2e-3},
			{1e-12, 0.03, 2.5e-3},
		},
		Params:  map[string]float64{"kon": 100},
		Initial: dynamo.State{0.02, 0.05, 0},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3", len(lines))
	}
	if lines[0] != "time_s,time_min,E,I,P" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "60,1,0.004,0.034,0.0012" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestWriteCSV_SelectedSpecies(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample(), "P", "E"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "time_s,time_min,P,E\n0,0,0,0.02\n") {
		t.Errorf("unexpected output %q", buf.String())
	}

	if err := WriteCSV(&buf, sample(), "EI_cov"); err == nil {
		t.Error("expected error for missing species")
	}
}

func TestCSVRoundTripKeepsPrecision(t *testing.T) {
	tr := sample()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tr); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != tr.Len() || len(got.Species) != 3 {
		t.Fatalf("read %d samples of %v", got.Len(), got.Species)
	}
	for i := range tr.States {
		for j := range tr.States[i] {
			if got.States[i][j] != tr.States[i][j] {
				t.Errorf("state[%d][%d] = %v, want %v", i, j, got.States[i][j], tr.States[i][j])
			}
		}
	}
}

func TestWriteComparisonCSV(t *testing.T) {
	a, b := sample(), sample()
	b.States[2][2] = 5e-3

	var buf bytes.Buffer
	err := WriteComparisonCSV(&buf, "P", []string{"Neratinib", "Afatinib", "failed"},
		[]*dynamo.Trajectory{a, b, nil})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "time_s,time_min,Neratinib,Afatinib,failed" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[3] != "120,2,0.0025,0.005," {
		t.Errorf("last row = %q", lines[3])
	}

	if err := WriteComparisonCSV(&buf, "P", []string{"x"}, []*dynamo.Trajectory{a, b}); err == nil {
		t.Error("expected label count mismatch")
	}
}

func TestWriteComparisonCSV_FailedColumns(t *testing.T) {
	var buf bytes.Buffer
	err := WriteComparisonCSV(&buf, "P", []string{"bad", "ok"}, []*dynamo.Trajectory{nil, sample()})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3", len(lines))
	}
	if lines[0] != "time_s,time_min,bad,ok" || lines[2] != "60,1,,0.0012" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	err = WriteComparisonCSV(&buf, "P", []string{"a", "b"}, []*dynamo.Trajectory{nil, nil})
	if !errors.Is(err, ErrNoTrajectories) {
		t.Errorf("all failed: err = %v, want ErrNoTrajectories", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %q with no trajectories", buf.String())
	}
}

func TestNewCaseDocument(t *testing.T) {
	ok := NewCaseDocument("Afatinib", "basic", "auto", sample(), nil)
	if ok.Label != "Afatinib" || ok.Error != "" || ok.Samples != 3 {
		t.Errorf("successful case = %+v", ok)
	}

	failed := NewCaseDocument("kinact=-1", "basic", "auto", nil, dynamo.ErrInvalidParameter)
	if failed.Label != "kinact=-1" || failed.Error == "" || failed.Samples != 0 || failed.Variant != "basic" {
		t.Errorf("failed case = %+v", failed)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, []Document{failed, ok}); err != nil {
		t.Fatal(err)
	}
	var docs []Document
	if err := json.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].Label != "kinact=-1" || docs[0].Error == "" || docs[1].Label != "Afatinib" {
		t.Errorf("decoded %+v", docs)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewDocument("basic", "auto", sample())); err != nil {
		t.Fatal(err)
	}

	var doc Document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Variant != "basic" || doc.Samples != 3 || doc.Params["kon"] != 100 {
		t.Errorf("decoded %+v", doc)
	}
	if doc.States[1][2] != 1.2e-3 {
		t.Errorf("states[1][2] = %v", doc.States[1][2])
	}
}
