// Package problem defines the stage placement problem and its wire formats.
//
// A [Problem] is loaded once and never modified during a solve. It carries the
// room and stage geometry, the role of every performer, the listeners with
// their taste vectors, and the pillars. Two encodings are supported:
//
//   - the flat little-endian binary payload consumed by the solver
//     ([Decode], [Encode], [ReadPayload], [ReadFile])
//   - the contest JSON problem format ([FromJSON])
//
// Solutions travel the same two ways: the binary answer written by the solver
// ([EncodeAnswer], [DecodeAnswer]) and the contest JSON submission format
// ([Solution.MarshalJSON]).
//
// # Binary Payload
//
// All integers are little-endian with no padding:
//
//	header     12 × u32   room w/h, stage w/h, stage x/y, instruments,
//	                      musicians, attendees, pillars, scoring mode,
//	                      time limit (seconds, 0 = unlimited)
//	roles      M × u32
//	listeners  A × (i32 x, i32 y)
//	tastes     A·I × i32, row-major by listener
//	pillars    P × (i32 x, i32 y, i32 radius)
//
// [Decode] validates that the declared counts fit the received bytes before
// any array is sliced.
package problem
