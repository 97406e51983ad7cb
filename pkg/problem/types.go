package problem

import (
	"github.com/paiv/icfpc2023/pkg/errors"
)

// Scoring modes. Any value other than ModeCloseness scores plainly.
const (
	ModePlain     uint32 = 1
	ModeCloseness uint32 = 2
)

// DefaultLightningCutoff is the last problem id scored in plain mode.
const DefaultLightningCutoff = 55

// Header is the fixed-size configuration record at the start of a payload.
type Header struct {
	RoomWidth   uint32 `json:"room_width"`
	RoomHeight  uint32 `json:"room_height"`
	StageWidth  uint32 `json:"stage_width"`
	StageHeight uint32 `json:"stage_height"`
	StageX      uint32 `json:"stage_x"`
	StageY      uint32 `json:"stage_y"`
	Instruments uint32 `json:"instruments"`
	Musicians   uint32 `json:"musicians"`
	Attendees   uint32 `json:"attendees"`
	PillarCount uint32 `json:"pillars"`
	ScoringMode uint32 `json:"scoring_mode"`
	TimeLimit   uint32 `json:"time_limit"` // seconds, 0 = unlimited
}

// HeaderSize is the encoded size of [Header] in bytes.
const HeaderSize = 12 * 4

// Point is a performer position on the stage.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Listener is an audience member at an integer position.
type Listener struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Pillar is a circular obstacle that blocks sound.
type Pillar struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
	R int32 `json:"radius"`
}

// Problem is a fully decoded placement problem.
type Problem struct {
	Header

	// Roles holds the instrument of each performer, indexed by performer.
	Roles []uint32
	// Listeners holds every attendee position.
	Listeners []Listener
	// Tastes is the attendee × instrument taste matrix, row-major by
	// attendee. Use [Problem.Taste] to index it.
	Tastes []int32
	// Pillars holds the fixed obstacles.
	Pillars []Pillar
}

// Taste returns listener i's taste for the given role.
func (p *Problem) Taste(i int, role uint32) int32 {
	return p.Tastes[i*int(p.Instruments)+int(role)]
}

// Closeness reports whether the closeness-weighted scoring variant applies.
func (p *Problem) Closeness() bool {
	return p.ScoringMode == ModeCloseness
}

// StageBounds returns the stage rectangle in room coordinates.
func (p *Problem) StageBounds() (x0, y0, x1, y1 float64) {
	x0, y0 = float64(p.StageX), float64(p.StageY)
	return x0, y0, x0 + float64(p.StageWidth), y0 + float64(p.StageHeight)
}

// Validate checks that the slices agree with the header counts and that every
// role indexes a taste column.
func (p *Problem) Validate() error {
	switch {
	case len(p.Roles) != int(p.Musicians):
		return errors.New(errors.ErrCodeInvalidInput, "musicians: header declares %d, have %d roles", p.Musicians, len(p.Roles))
	case len(p.Listeners) != int(p.Attendees):
		return errors.New(errors.ErrCodeInvalidInput, "attendees: header declares %d, have %d", p.Attendees, len(p.Listeners))
	case uint64(len(p.Tastes)) != uint64(p.Attendees)*uint64(p.Instruments):
		return errors.New(errors.ErrCodeInvalidInput, "tastes: want %d×%d values, have %d", p.Attendees, p.Instruments, len(p.Tastes))
	case len(p.Pillars) != int(p.PillarCount):
		return errors.New(errors.ErrCodeInvalidInput, "pillars: header declares %d, have %d", p.PillarCount, len(p.Pillars))
	}
	for k, role := range p.Roles {
		if role >= p.Instruments {
			return errors.New(errors.ErrCodeInvalidInput, "musician %d: role %d out of range (instruments=%d)", k, role, p.Instruments)
		}
	}
	return nil
}
