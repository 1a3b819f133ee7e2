package storage

import (
	"testing"

	"github.com/golang/geo/r3"

	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/quadrotor"
	"github.com/suresh-guttikonda/rotors-quadrotor-control/internal/sim"
)

func sampleResult() *sim.Result {
	x0 := make(sim.State, 13)
	x0[6] = 1
	x1 := x0.Clone()
	x1[2] = 0.1

	return &sim.Result{
		States: []sim.State{x0, x1},
		Commands: []quadrotor.ControlCommand{
			{CollectiveThrust: 9.81, BodyRates: r3.Vector{X: 0.1}},
		},
		References: []quadrotor.TrajectoryPoint{
			{Position: r3.Vector{Z: 2}, Heading: 0.5},
		},
		Times:   []float64{0, 0.01},
		Metrics: map[string]float64{"position_rmse": 0.25},
	}
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save("hover", 0.01, 10.0, "rk4", sampleResult())
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Trajectory != "hover" || meta.Integrator != "rk4" {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Metrics["position_rmse"] != 0.25 {
		t.Errorf("metrics = %v", meta.Metrics)
	}
}

func TestListRuns(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Save("hover", 0.01, 1.0, "rk4", sampleResult()); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
}

func TestListEmptyDir(t *testing.T) {
	st := New("/nonexistent/path/for/sure")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("missing dir should list empty, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestLoadStatesSeries(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := st.Save("hover", 0.01, 1.0, "rk4", sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	series, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states: %v", err)
	}
	if len(times) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(times))
	}
	if len(series["pz"]) != 2 || series["pz"][1] != 0.1 {
		t.Errorf("pz series = %v", series["pz"])
	}
	if series["cmd_thrust"][0] != 9.81 {
		t.Errorf("cmd_thrust = %v", series["cmd_thrust"])
	}
	if series["ref_pz"][0] != 2 {
		t.Errorf("ref_pz = %v", series["ref_pz"])
	}
}
