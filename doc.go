// Package respcodec implements encoding and decoding of Go values in the Redis
// RESP wire format, covering all RESP2 and RESP3 data types.
//
// This package performs no I/O and is not a Redis client: it only converts
// between in-memory values and RESP bytes. Marshal and Unmarshal handle whole
// values via reflection, similar to encoding/json. The Encoder and Decoder
// types expose the underlying engines for callers that want to write or read
// individual wire units themselves, for example from a MarshalRESP or
// UnmarshalRESP method.
package respcodec
