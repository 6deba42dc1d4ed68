package camo

// PackResult is the outcome of a successful Pack.
type PackResult struct {
	// Output is the artifact path.
	Output string
	// HatFile is the hat file path, empty in passphrase mode.
	HatFile string
	// Hat is the stored key material, nil in passphrase mode.
	Hat *Hat

	// CoverSize and Size are the cover and artifact sizes in bytes.
	CoverSize int64
	Size      int64
	// Increase is the artifact growth relative to the cover, in percent.
	Increase float64

	Message string
}

// UnpackResult is the outcome of a successful Unpack.
type UnpackResult struct {
	// Artifact is the image the file was recovered from.
	Artifact string
	// FileName is the recovered base file name.
	FileName string
	// Output is where the recovered file was written.
	Output string
	// Size is the recovered content size in bytes.
	Size int64
	// Compressed reports whether the record was compressed.
	Compressed bool

	Message string
}
