package problem

import (
	"encoding/json"

	"github.com/paiv/icfpc2023/pkg/errors"
)

// jsonProblem mirrors the contest problem document. Numbers are parsed as
// floats and truncated, matching how the contest files store whole values
// as 1234.0.
type jsonProblem struct {
	RoomWidth       float64      `json:"room_width"`
	RoomHeight      float64      `json:"room_height"`
	StageWidth      float64      `json:"stage_width"`
	StageHeight     float64      `json:"stage_height"`
	StageBottomLeft [2]float64   `json:"stage_bottom_left"`
	Musicians       []uint32     `json:"musicians"`
	Attendees       []jsonPerson `json:"attendees"`
	Pillars         []jsonPillar `json:"pillars"`
}

type jsonPerson struct {
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Tastes []float64 `json:"tastes"`
}

type jsonPillar struct {
	Center [2]float64 `json:"center"`
	Radius float64    `json:"radius"`
}

// FromJSON converts a contest problem document into a [Problem].
//
// The instrument count is the length of the taste rows; a problem without
// attendees falls back to the highest role plus one. Every row must have the
// same length.
func FromJSON(data []byte, mode, timeLimit uint32) (*Problem, error) {
	var doc jsonProblem
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse problem JSON")
	}

	instruments := uint32(0)
	if len(doc.Attendees) > 0 {
		instruments = uint32(len(doc.Attendees[0].Tastes))
	} else {
		for _, r := range doc.Musicians {
			instruments = max(instruments, r+1)
		}
	}

	p := &Problem{
		Header: Header{
			RoomWidth:   uint32(doc.RoomWidth),
			RoomHeight:  uint32(doc.RoomHeight),
			StageWidth:  uint32(doc.StageWidth),
			StageHeight: uint32(doc.StageHeight),
			StageX:      uint32(doc.StageBottomLeft[0]),
			StageY:      uint32(doc.StageBottomLeft[1]),
			Instruments: instruments,
			Musicians:   uint32(len(doc.Musicians)),
			Attendees:   uint32(len(doc.Attendees)),
			PillarCount: uint32(len(doc.Pillars)),
			ScoringMode: mode,
			TimeLimit:   timeLimit,
		},
		Roles:     doc.Musicians,
		Listeners: make([]Listener, len(doc.Attendees)),
		Tastes:    make([]int32, 0, len(doc.Attendees)*int(instruments)),
		Pillars:   make([]Pillar, len(doc.Pillars)),
	}
	if p.Roles == nil {
		p.Roles = []uint32{}
	}

	for i, a := range doc.Attendees {
		if uint32(len(a.Tastes)) != instruments {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "attendee %d: %d tastes, want %d", i, len(a.Tastes), instruments)
		}
		p.Listeners[i] = Listener{X: int32(a.X), Y: int32(a.Y)}
		for _, t := range a.Tastes {
			p.Tastes = append(p.Tastes, int32(t))
		}
	}
	for i, c := range doc.Pillars {
		p.Pillars[i] = Pillar{X: int32(c.Center[0]), Y: int32(c.Center[1]), R: int32(c.Radius)}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ModeForProblemID returns the scoring mode used by the contest for pid:
// closeness-weighted above cutoff, plain otherwise.
func ModeForProblemID(pid, cutoff int) uint32 {
	if pid > cutoff {
		return ModeCloseness
	}
	return ModePlain
}
