// Package contest is a client for the ICFP Contest 2023 API.
//
// The API serves problem documents and accepts solutions:
//
//	GET  /problems                      {"number_of_problems": N}
//	GET  /problem?problem_id=N          {"Success": "<problem JSON>"}
//	POST /submission                    "<submission id>"
//	GET  /submission?submission_id=S    {"Success": {"submission": {...}}}
//
// Problems are also mirrored on a CDN that needs no token. Requests carry
// headers read from a TOML credentials file:
//
//	[headers]
//	Authorization = "Bearer ..."
package contest
