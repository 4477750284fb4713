package script

// ExecutableContent is script source that has been parsed and is ready to run.
// Implementations such as goja.Program keep the source next to the compiled
// form so failures can be reported against the original text.
type ExecutableContent interface {
	// GetSource returns the original script text.
	GetSource() string

	// GetName returns the name the source was compiled under, normally its
	// path or a stable identifier derived from the loader's source URL.
	GetName() string

	// GetByteCode returns the compiled form in an engine specific type. The
	// engine asserts it into its own program type and fails when the types
	// do not match.
	GetByteCode() any
}
