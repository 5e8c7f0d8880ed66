package config

// Version is the current nx version.
var Version = "0.1.0"

// SourceFileExt is the canonical source file extension.
const SourceFileExt = ".sl"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".sl", ".nx"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode is a flag for the `test` subcommand. No code in this
// repository sets or reads it, so it stays false.
var IsTestMode = false

// Class names returned by ObjClass.Name for every builtin type, per the
// canonical typeof() string table.
const (
	ClassInt    = "int"
	ClassFloat  = "flt"
	ClassStr    = "str"
	ClassBool   = "bool"
	ClassNil    = "nil"
	ClassSeq    = "seq"
	ClassTuple  = "tuple"
	ClassObj    = "obj"
	ClassFn     = "fn"
	ClassClass  = "class"
)

// Special method names cached on every finalized class.
const (
	CtorMethodName  = "ctor"
	HasMethodName   = "has"
	ToStrMethodName = "to_str"
	SliceMethodName = "slice"
)

// GC tuning.
const (
	InitialNextGC = 1 << 20 // 1 MiB before the first collection
	GCGrowFactor  = 2
)

// VM stack sizing.
const (
	FramesMax = 64
	StackMax  = FramesMax * 256
)
