package importing

// Options is a string-keyed option map negotiated with the caller and
// passed to every importer. The orchestration core never mutates a
// shared Options value; per-file provenance is recorded on a snapshot
// (see WithFileSource).
type Options map[string]interface{}

// FileSourceKey is the provenance entry recording which file an option
// snapshot was taken for.
const FileSourceKey = "fileSource"

// Clone returns a shallow copy of the options.
func (o Options) Clone() Options {
	clone := make(Options, len(o)+1)
	for k, v := range o {
		clone[k] = v
	}
	return clone
}

// WithFileSource returns a per-file snapshot of the options carrying
// the given source label. The receiver is left untouched.
func (o Options) WithFileSource(source string) Options {
	clone := o.Clone()
	clone[FileSourceKey] = source
	return clone
}

// String returns the named option as a string, or fallback when the
// option is absent or not a string.
func (o Options) String(key, fallback string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// Int returns the named option as an int, or fallback.
func (o Options) Int(key string, fallback int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// Bool returns the named option as a bool, or fallback.
func (o Options) Bool(key string, fallback bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}
