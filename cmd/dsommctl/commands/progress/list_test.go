package progress

import (
	"testing"
	"time"

	"github.com/marmos91/dsomm/pkg/model"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCurrentState(t *testing.T) {
	titles := []string{"Not implemented", "Assessed", "Implemented"}

	state, date, ok := currentState(model.TeamProgress{
		"Assessed":    day("2024-01-02"),
		"Implemented": day("2024-02-03"),
	}, titles)
	if !ok || state != "Implemented" || !date.Equal(day("2024-02-03")) {
		t.Errorf("currentState = %q %v %v, want Implemented 2024-02-03", state, date, ok)
	}

	if _, _, ok := currentState(nil, titles); ok {
		t.Error("currentState(nil) should report no state")
	}

	if _, _, ok := currentState(model.TeamProgress{"Retired": day("2024-01-01")}, titles); ok {
		t.Error("unknown titles should be ignored")
	}
}

func TestBuildEntries(t *testing.T) {
	titles := []string{"Not implemented", "Assessed", "Implemented"}
	progress := model.Progress{
		"a1": {
			"Team B": {"Assessed": day("2024-01-02")},
			"Team A": {"Assessed": day("2024-01-01"), "Implemented": day("2024-01-05")},
		},
		"a2": {
			"Team A": {"Not implemented": day("2024-01-01")},
		},
	}
	names := map[string]string{"a1": "Build pipeline", "a2": "Automated tests"}

	all := buildEntries(progress, titles, names, "", "")
	if len(all) != 3 {
		t.Fatalf("got %d entries, want 3", len(all))
	}
	if all[0].Activity != "Automated tests" || all[1].Team != "Team A" || all[2].Team != "Team B" {
		t.Errorf("unexpected order: %+v", all)
	}
	if all[1].State != "Implemented" {
		t.Errorf("Team A state = %q, want Implemented", all[1].State)
	}

	teamA := buildEntries(progress, titles, names, "Team A", "a1")
	if len(teamA) != 1 || teamA[0].ActivityUUID != "a1" {
		t.Errorf("filtered entries = %+v", teamA)
	}

	if got := buildEntries(progress, titles, names, "Team C", ""); len(got) != 0 {
		t.Errorf("unknown team yielded %d entries", len(got))
	}
}
