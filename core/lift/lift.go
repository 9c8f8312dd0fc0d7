package lift

// Package-level convenience wrappers. Each call constructs a fresh parser
// or generator with default options; there is no shared process-wide state.

// ParseString parses a LIFT document with validation enabled.
func ParseString(xml string) ([]Entry, error) {
	return NewParser().ParseString(xml)
}

// ParseFile parses a LIFT file with validation enabled.
func ParseFile(path string) ([]Entry, error) {
	return NewParser().ParseFile(path)
}

// GenerateString serializes entries with a default generator.
func GenerateString(entries []Entry) (string, error) {
	return NewGenerator().GenerateString(entries)
}

// GenerateFile serializes entries to a file with a default generator.
func GenerateFile(entries []Entry, path string) error {
	return NewGenerator().GenerateFile(entries, path)
}
