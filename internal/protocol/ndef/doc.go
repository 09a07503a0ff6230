// Package ndef encodes and decodes NFC Data Exchange Format messages.
//
// A message is a concatenation of records with no separators. Each record is
//
//	byte        header (MB ME CF SR IL TNF[3])
//	byte        type length
//	1|4 bytes   payload length (1 byte iff SR, else big-endian uint32)
//	byte        id length (iff IL)
//	type bytes  UTF-8 type identifier
//	id bytes    opaque id (iff IL)
//	payload
//
// Three payloads are understood: well-known Text ("T"), external
// "domain:name" blobs, and external "cbor" objects. Other type name formats
// and well-known types are rejected on decode.
//
// Messages grow on demand by default. NewBoundedMessage and DecodeWithLimits
// cap record count and buffer sizes for callers that pre-provision memory.
package ndef
