package dwg

// Config controls one Open/Decode call. The zero value is a strict,
// unlimited decode with no debug hook, matching bzip2.ReaderConfig /
// flate's blank-field-guarded config structs in the teacher: a caller
// that only needs defaults writes `dwg.Config{}`.
type Config struct {
	// BestEffort, if true, makes entity-level Format/Decode/Io errors
	// (§7) skip that entity instead of aborting the whole decode.
	// Versions outside the well-tested R2000/R2004 baseline default to
	// best-effort regardless of this field; see version.DefaultBestEffort.
	BestEffort bool

	// Limit caps the number of rows emitted across all row slices
	// combined; 0 means unlimited. Row assembly stops as soon as the
	// limit is reached; the object-map walk itself still runs to the end.
	Limit int

	// Debug, if non-nil, receives printf-style diagnostic traces during
	// decode. nil is a safe no-op; no logging framework is pulled in
	// for this, per SPEC_FULL.md §10.2.
	Debug func(format string, args ...interface{})
}

func (c Config) trace(format string, args ...interface{}) {
	if c.Debug != nil {
		c.Debug(format, args...)
	}
}
