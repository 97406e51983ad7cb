package problem

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/paiv/icfpc2023/pkg/errors"
)

// Volume levels assigned by the finalizer.
const (
	VolumeMuted uint32 = 1
	VolumeLoud  uint32 = 10
)

// Solution is a placement of every performer with its volume and the total
// score the solver reported for it.
type Solution struct {
	Score      int64    `json:"-" bson:"score"`
	Placements []Point  `json:"placements" bson:"placements"`
	Volumes    []uint32 `json:"volumes,omitempty" bson:"volumes,omitempty"`
}

// Volume returns the volume of performer k, 1 when none was assigned.
func (s *Solution) Volume(k int) uint32 {
	if k < len(s.Volumes) {
		return s.Volumes[k]
	}
	return VolumeMuted
}

// EncodeAnswer serializes s into the solver output format: i64 score, u32 M,
// M × (f32 x, f32 y), u32 M, M × u32 volumes.
func EncodeAnswer(s *Solution) []byte {
	n := uint32(len(s.Placements))
	le := binary.LittleEndian
	buf := make([]byte, 0, 8+4+8*int(n)+4+4*int(n))
	buf = le.AppendUint64(buf, uint64(s.Score))
	buf = le.AppendUint32(buf, n)
	for _, pt := range s.Placements {
		buf = le.AppendUint32(buf, math.Float32bits(float32(pt.X)))
		buf = le.AppendUint32(buf, math.Float32bits(float32(pt.Y)))
	}
	buf = le.AppendUint32(buf, n)
	for k := range s.Placements {
		buf = le.AppendUint32(buf, s.Volume(k))
	}
	return buf
}

// DecodeAnswer parses the solver output format.
func DecodeAnswer(data []byte) (*Solution, error) {
	le := binary.LittleEndian
	short := func(need int) error {
		return errors.New(errors.ErrCodeShortRead, "answer is %d bytes, need %d", len(data), need)
	}

	if len(data) < 12 {
		return nil, short(12)
	}
	s := &Solution{Score: int64(le.Uint64(data))}
	n := int(le.Uint32(data[8:]))
	off := 12
	if need := off + 8*n + 4; len(data) < need {
		return nil, short(need)
	}
	s.Placements = make([]Point, n)
	for i := range s.Placements {
		x := math.Float32frombits(le.Uint32(data[off:]))
		y := math.Float32frombits(le.Uint32(data[off+4:]))
		s.Placements[i] = Point{X: float64(x), Y: float64(y)}
		off += 8
	}

	m := int(le.Uint32(data[off:]))
	off += 4
	if need := off + 4*m; len(data) < need {
		return nil, short(need)
	}
	if m > 0 {
		s.Volumes = make([]uint32, m)
		for i := range s.Volumes {
			s.Volumes[i] = le.Uint32(data[off:])
			off += 4
		}
	}
	return s, nil
}

// ParseSolutionJSON reads a contest solution document.
func ParseSolutionJSON(data []byte) (*Solution, error) {
	var s Solution
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse solution JSON")
	}
	return &s, nil
}

// Check verifies that s places exactly the performers of p and that every
// volume is in range.
func (s *Solution) Check(p *Problem) error {
	if len(s.Placements) != len(p.Roles) {
		return errors.New(errors.ErrCodeInvalidSolution, "solution places %d musicians, problem has %d", len(s.Placements), len(p.Roles))
	}
	if len(s.Volumes) != 0 && len(s.Volumes) != len(s.Placements) {
		return errors.New(errors.ErrCodeInvalidSolution, "solution has %d volumes for %d placements", len(s.Volumes), len(s.Placements))
	}
	for k, v := range s.Volumes {
		if v > VolumeLoud {
			return errors.New(errors.ErrCodeInvalidSolution, "musician %d: volume %d out of range", k, v)
		}
	}
	return nil
}
