package arscrub

import (
	"os"
	"strings"
)

// I/O backends for path-level scrubbing
const (
	BackendFile = "file" // positioned pread/pwrite on an *os.File
	BackendMmap = "mmap" // shared writable mapping
)

// Options controls how ScrubPath opens and rewrites an archive
type Options struct {
	GlobalHeader []byte // expected signature at offset 0
	FileMode     int64  // mode written to every entry
	Atomic       bool   // scrub a copy and rename it over the original
	Backend      string // BackendFile or BackendMmap
}

// DefaultOptions returns options for a regular "!<arch>\n" archive scrubbed in place
func DefaultOptions() Options {
	return Options{
		GlobalHeader: []byte(GlobalHeaderArch),
		FileMode:     CanonicalFileMode,
		Backend:      BackendFile,
	}
}

// ScrubPath scrubs the archive at path according to opts
func ScrubPath(path string, opts Options) (*ScrubReport, error) {
	defer VerboseEnter()()

	backend := strings.ToLower(opts.Backend)
	if backend == "" {
		backend = BackendFile
	}
	if err := ValidateBackend(backend); err != nil {
		return nil, newScrubError(KindFormat, err, "cannot scrub %s", path)
	}
	if opts.Atomic {
		return scrubAtomic(path, opts)
	}

	scrubber := NewDateUIDGIDScrubber(opts.GlobalHeader, WithFileMode(opts.FileMode))
	VerboseLog(1, "Scrubbing %s (backend %s)", path, backend)

	switch backend {
	case BackendMmap:
		mf, err := OpenMmapFile(path)
		if err != nil {
			return nil, newScrubError(KindIO, err, "failed to open %s", path)
		}
		report, err := scrubber.Scrub(mf)
		if closeErr := mf.Close(); closeErr != nil && err == nil {
			err = newScrubError(KindIO, closeErr, "failed to flush %s", path)
		}
		return report, err

	default:
		file, err := os.OpenFile(path, os.O_RDWR, 0)
		if err != nil {
			return nil, newScrubError(KindIO, err, "failed to open %s", path)
		}
		report, err := scrubber.Scrub(NewOSFile(file))
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = newScrubError(KindIO, closeErr, "failed to close %s", path)
		}
		return report, err
	}
}
