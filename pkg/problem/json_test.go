package problem

import (
	"testing"

	"github.com/paiv/icfpc2023/pkg/errors"
)

const contestProblem = `{
  "room_width": 2000.0,
  "room_height": 5000.0,
  "stage_width": 1000.0,
  "stage_height": 200.0,
  "stage_bottom_left": [500.0, 0.0],
  "musicians": [0, 1, 0],
  "attendees": [
    {"x": 100.0, "y": 500.0, "tastes": [1000.0, -1000.0]},
    {"x": 200.0, "y": 1000.0, "tastes": [200.0, 200.0]},
    {"x": 1100.0, "y": 800.0, "tastes": [800.0, 1500.0]}
  ],
  "pillars": [{"center": [345.0, 255.0], "radius": 4.0}]
}`

func TestFromJSON(t *testing.T) {
	p, err := FromJSON([]byte(contestProblem), ModeCloseness, 10)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	want := Header{
		RoomWidth: 2000, RoomHeight: 5000,
		StageWidth: 1000, StageHeight: 200,
		StageX: 500, StageY: 0,
		Instruments: 2, Musicians: 3, Attendees: 3, PillarCount: 1,
		ScoringMode: ModeCloseness, TimeLimit: 10,
	}
	if p.Header != want {
		t.Errorf("Header = %+v, want %+v", p.Header, want)
	}
	if got := p.Taste(2, 1); got != 1500 {
		t.Errorf("Taste(2, 1) = %d, want 1500", got)
	}
	if got := p.Taste(0, 1); got != -1000 {
		t.Errorf("Taste(0, 1) = %d, want -1000", got)
	}
	if p.Pillars[0] != (Pillar{X: 345, Y: 255, R: 4}) {
		t.Errorf("Pillars[0] = %+v", p.Pillars[0])
	}
	if !p.Closeness() {
		t.Error("Closeness() = false, want true")
	}
}

func TestFromJSONNoAttendees(t *testing.T) {
	doc := `{"room_width":50,"room_height":50,"stage_width":20,"stage_height":20,
	         "stage_bottom_left":[0,0],"musicians":[0,3,1],"attendees":[],"pillars":[]}`
	p, err := FromJSON([]byte(doc), ModePlain, 0)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if p.Instruments != 4 {
		t.Errorf("Instruments = %d, want 4", p.Instruments)
	}
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"malformed", `{"room_width":`, errors.ErrCodeInvalidFormat},
		{
			"ragged tastes",
			`{"musicians":[0],"attendees":[{"x":1,"y":1,"tastes":[1,2]},{"x":2,"y":2,"tastes":[1]}]}`,
			errors.ErrCodeInvalidFormat,
		},
		{
			"role without taste column",
			`{"musicians":[0,2],"attendees":[{"x":1,"y":1,"tastes":[1,2]}]}`,
			errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.doc), ModePlain, 0)
			if !errors.Is(err, tt.code) {
				t.Errorf("FromJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestModeForProblemID(t *testing.T) {
	tests := []struct {
		pid  int
		want uint32
	}{
		{1, ModePlain},
		{55, ModePlain},
		{56, ModeCloseness},
		{90, ModeCloseness},
	}
	for _, tt := range tests {
		if got := ModeForProblemID(tt.pid, DefaultLightningCutoff); got != tt.want {
			t.Errorf("ModeForProblemID(%d) = %d, want %d", tt.pid, got, tt.want)
		}
	}
}
