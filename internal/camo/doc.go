// Package camo hides a file inside a JPEG cover image and recovers it again.
//
// The hidden section is appended after the cover's end-of-image marker:
//
//	[cover bytes][FFD9 + marker][flag][AES-256-CTR( [gzip]( record ) )]
//
// where record is
//
//	[uint16 LE name length][name][int32 LE CRC-32(name)][content]
//
// The encryption is not authenticated. A wrong passphrase or hat file is only
// detected by a failing decompression or a file name CRC mismatch, both of
// which can be fooled by crafted input.
package camo
