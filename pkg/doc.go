// Package arscrub removes non-deterministic build metadata from static ar
// archives so that identical inputs produce byte-identical archive files.
//
// # Core API
//
// A scrub pass runs over an open ArchiveFile, validates the global header,
// then rewrites every 60-byte entry metadata record in place: the
// modification time, owner ID and group ID become 0 and the file mode
// becomes 0100644. Member data and the file length never change.
//
//	f, _ := os.OpenFile("libfoo.a", os.O_RDWR, 0)
//	defer f.Close()
//	scrubber := arscrub.NewDateUIDGIDScrubber([]byte(arscrub.GlobalHeaderArch))
//	if err := scrubber.ScrubFile(arscrub.NewOSFile(f)); err != nil {
//		return err
//	}
//
// # Paths and atomicity
//
// A pass is not transactional: a failure part way through leaves earlier
// entries rewritten. ScrubPath with Options.Atomic scrubs a copy and renames
// it over the original only on success:
//
//	opts := arscrub.DefaultOptions()
//	opts.Atomic = true
//	report, err := arscrub.ScrubPath("libfoo.a", opts)
//
// # Errors
//
// Every failure is a *ScrubError whose Kind is one of KindFormat,
// KindTruncation, KindIO or KindEncoding:
//
//	if errors.Is(err, arscrub.ErrFormat) {
//		// not an archive, or offsets have desynchronised
//	}
//
// # Configuration
//
// LoadConfig reads an ini file with [archive], [scrub] and [verbose]
// sections; Config.Options converts it for ScrubPath. Verbose output is
// controlled with SetVerboseLevel and SetDebugFlags("entries,io").
package arscrub
