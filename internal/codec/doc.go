// Package codec holds the shared CBOR modes for object payloads.
//
// The encoder uses Core Deterministic Encoding: sorted map keys, smallest
// integer encoding, no indefinite-length items. Both record construction
// and the HTTP/CLI layers go through this package so a value always
// encodes to the same bytes.
package codec
