package problem

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/paiv/icfpc2023/pkg/errors"
)

func TestEncodeAnswer(t *testing.T) {
	s := &Solution{
		Score:      4000000,
		Placements: []Point{{X: 5, Y: 5}, {X: 15.5, Y: 13.660254}},
		Volumes:    []uint32{10, 1},
	}
	data := EncodeAnswer(s)

	if want := 8 + 4 + 2*8 + 4 + 2*4; len(data) != want {
		t.Fatalf("len = %d, want %d", len(data), want)
	}
	le := binary.LittleEndian
	if got := int64(le.Uint64(data)); got != 4000000 {
		t.Errorf("score = %d", got)
	}
	if got := le.Uint32(data[8:]); got != 2 {
		t.Errorf("count = %d", got)
	}
	if got := math.Float32frombits(le.Uint32(data[12+8:])); got != 15.5 {
		t.Errorf("placements[1].x = %v", got)
	}
	if got := le.Uint32(data[12+16:]); got != 2 {
		t.Errorf("repeated count = %d", got)
	}
	if got := le.Uint32(data[len(data)-4:]); got != 1 {
		t.Errorf("volumes[1] = %d", got)
	}

	back, err := DecodeAnswer(data)
	if err != nil {
		t.Fatalf("DecodeAnswer: %v", err)
	}
	if back.Score != s.Score || !reflect.DeepEqual(back.Volumes, s.Volumes) {
		t.Errorf("DecodeAnswer() = %+v", back)
	}
	if back.Placements[1].Y != float64(float32(13.660254)) {
		t.Errorf("placements[1].y = %v", back.Placements[1].Y)
	}
}

func TestEncodeAnswerDefaultsVolume(t *testing.T) {
	data := EncodeAnswer(&Solution{Placements: []Point{{X: 1, Y: 2}}})
	if got := binary.LittleEndian.Uint32(data[len(data)-4:]); got != VolumeMuted {
		t.Errorf("volume = %d, want %d", got, VolumeMuted)
	}
}

func TestDecodeAnswerShort(t *testing.T) {
	data := EncodeAnswer(&Solution{Score: 1, Placements: []Point{{X: 1, Y: 2}}, Volumes: []uint32{10}})
	for _, n := range []int{0, 11, 16, 23, len(data) - 1} {
		if _, err := DecodeAnswer(data[:n]); !errors.Is(err, errors.ErrCodeShortRead) {
			t.Errorf("DecodeAnswer(%d bytes) error = %v, want SHORT_READ", n, err)
		}
	}
}

func TestSolutionJSON(t *testing.T) {
	s := &Solution{Score: 99, Placements: []Point{{X: 1.5, Y: 2}}, Volumes: []uint32{10}}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"placements":[{"x":1.5,"y":2}],"volumes":[10]}`; string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	back, err := ParseSolutionJSON(data)
	if err != nil {
		t.Fatalf("ParseSolutionJSON: %v", err)
	}
	if back.Score != 0 || back.Placements[0] != s.Placements[0] {
		t.Errorf("ParseSolutionJSON() = %+v", back)
	}
}

func TestSolutionCheck(t *testing.T) {
	p := sampleProblem()
	tests := []struct {
		name    string
		sol     Solution
		wantErr bool
	}{
		{"ok", Solution{Placements: make([]Point, 3), Volumes: []uint32{1, 10, 0}}, false},
		{"no volumes", Solution{Placements: make([]Point, 3)}, false},
		{"wrong count", Solution{Placements: make([]Point, 2)}, true},
		{"volume count", Solution{Placements: make([]Point, 3), Volumes: []uint32{1}}, true},
		{"volume range", Solution{Placements: make([]Point, 3), Volumes: []uint32{1, 11, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sol.Check(p)
			if (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
