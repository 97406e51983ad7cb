package problem

import (
	"encoding/binary"
	"io"
	"math/bits"
	"os"

	"github.com/paiv/icfpc2023/pkg/errors"
)

// Element sizes of the payload arrays.
const (
	roleSize     = 4
	listenerSize = 8
	tasteSize    = 4
	pillarSize   = 12
)

// layout holds the byte offset of every payload array.
type layout struct {
	roles, listeners, tastes, pillars, end uint64
	overflow                               bool
}

// span advances off past count elements of size bytes, reporting overflow.
func span(off, count, size uint64) (uint64, bool) {
	hi, n := bits.Mul64(count, size)
	if hi != 0 {
		return 0, true
	}
	end, carry := bits.Add64(off, n, 0)
	return end, carry != 0
}

func (h Header) layout() layout {
	var l layout
	var o1, o2, o3, o4 bool
	l.roles = HeaderSize
	l.listeners, o1 = span(l.roles, uint64(h.Musicians), roleSize)
	l.tastes, o2 = span(l.listeners, uint64(h.Attendees), listenerSize)
	l.pillars, o3 = span(l.tastes, uint64(h.Attendees)*uint64(h.Instruments), tasteSize)
	l.end, o4 = span(l.pillars, uint64(h.PillarCount), pillarSize)
	l.overflow = o1 || o2 || o3 || o4
	return l
}

// Size returns the encoded payload size declared by the header.
func (h Header) Size() uint64 {
	return h.layout().end
}

func decodeHeader(data []byte) Header {
	u := func(i int) uint32 { return binary.LittleEndian.Uint32(data[i*4:]) }
	return Header{
		RoomWidth:   u(0),
		RoomHeight:  u(1),
		StageWidth:  u(2),
		StageHeight: u(3),
		StageX:      u(4),
		StageY:      u(5),
		Instruments: u(6),
		Musicians:   u(7),
		Attendees:   u(8),
		PillarCount: u(9),
		ScoringMode: u(10),
		TimeLimit:   u(11),
	}
}

// Decode parses a binary payload. Trailing bytes past the declared arrays are
// ignored. A payload shorter than its header declares yields SHORT_READ.
func Decode(data []byte) (*Problem, error) {
	if len(data) < HeaderSize {
		return nil, errors.New(errors.ErrCodeShortRead, "payload is %d bytes, header needs %d", len(data), HeaderSize)
	}
	h := decodeHeader(data)
	l := h.layout()
	if l.overflow || l.end > uint64(len(data)) {
		return nil, errors.New(errors.ErrCodeShortRead, "payload is %d bytes, header declares more (%d)", len(data), l.end)
	}

	p := &Problem{
		Header:    h,
		Roles:     make([]uint32, h.Musicians),
		Listeners: make([]Listener, h.Attendees),
		Tastes:    make([]int32, uint64(h.Attendees)*uint64(h.Instruments)),
		Pillars:   make([]Pillar, h.PillarCount),
	}

	le := binary.LittleEndian
	for i := range p.Roles {
		p.Roles[i] = le.Uint32(data[l.roles+uint64(i)*roleSize:])
	}
	for i := range p.Listeners {
		b := data[l.listeners+uint64(i)*listenerSize:]
		p.Listeners[i] = Listener{X: int32(le.Uint32(b)), Y: int32(le.Uint32(b[4:]))}
	}
	for i := range p.Tastes {
		p.Tastes[i] = int32(le.Uint32(data[l.tastes+uint64(i)*tasteSize:]))
	}
	for i := range p.Pillars {
		b := data[l.pillars+uint64(i)*pillarSize:]
		p.Pillars[i] = Pillar{X: int32(le.Uint32(b)), Y: int32(le.Uint32(b[4:])), R: int32(le.Uint32(b[8:]))}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Encode serializes p into the binary payload format. The header counts are
// taken from the slices, so a hand-built Problem only needs its geometry,
// instrument count, scoring mode and time limit set.
func Encode(p *Problem) []byte {
	h := p.Header
	h.Musicians = uint32(len(p.Roles))
	h.Attendees = uint32(len(p.Listeners))
	h.PillarCount = uint32(len(p.Pillars))

	le := binary.LittleEndian
	buf := make([]byte, 0, h.Size())
	for _, v := range []uint32{
		h.RoomWidth, h.RoomHeight,
		h.StageWidth, h.StageHeight,
		h.StageX, h.StageY,
		h.Instruments, h.Musicians,
		h.Attendees, h.PillarCount,
		h.ScoringMode, h.TimeLimit,
	} {
		buf = le.AppendUint32(buf, v)
	}
	for _, r := range p.Roles {
		buf = le.AppendUint32(buf, r)
	}
	for _, a := range p.Listeners {
		buf = le.AppendUint32(buf, uint32(a.X))
		buf = le.AppendUint32(buf, uint32(a.Y))
	}
	for _, t := range p.Tastes {
		buf = le.AppendUint32(buf, uint32(t))
	}
	for _, c := range p.Pillars {
		buf = le.AppendUint32(buf, uint32(c.X))
		buf = le.AppendUint32(buf, uint32(c.Y))
		buf = le.AppendUint32(buf, uint32(c.R))
	}
	return buf
}

// EncodeFramed returns the payload prefixed with its u32 length, the form
// the solver reads from standard input.
func EncodeFramed(p *Problem) []byte {
	payload := Encode(p)
	buf := binary.LittleEndian.AppendUint32(make([]byte, 0, 4+len(payload)), uint32(len(payload)))
	return append(buf, payload...)
}

// ReadPayload reads a length-prefixed payload from r.
//
// A stream that ends before any byte arrives yields MISSING_INPUT. A stream
// that ends inside the prefix or the payload yields SHORT_READ.
func ReadPayload(r io.Reader) ([]byte, error) {
	var prefix [4]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		switch err {
		case io.EOF:
			return nil, errors.New(errors.ErrCodeMissingInput, "missing input")
		case io.ErrUnexpectedEOF:
			return nil, errors.New(errors.ErrCodeShortRead, "truncated length prefix")
		default:
			return nil, errors.Wrap(errors.ErrCodeShortRead, err, "read length prefix")
		}
	}
	size := binary.LittleEndian.Uint32(prefix[:])

	data, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeShortRead, err, "read payload")
	}
	if uint32(len(data)) < size {
		return nil, errors.New(errors.ErrCodeShortRead, "payload declares %d bytes, got %d", size, len(data))
	}
	return data, nil
}

// ReadFile reads a whole file as an unframed payload.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeShortRead, err, "read %s", path)
	}
	return data, nil
}

// Load reads a payload from path, or from r when path is empty, and decodes it.
func Load(path string, r io.Reader) (*Problem, error) {
	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = ReadFile(path)
	} else {
		data, err = ReadPayload(r)
	}
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
