package arscrub

// InitDebugFlags initialises debug flags - for CLI compatibility
func InitDebugFlags(flagsStr string) {
	if flagsStr != "" {
		SetDebugFlags(flagsStr)
	}
}

// NewVariantScrubber returns a date/uid/gid scrubber for a named archive variant
func NewVariantScrubber(variant string, opts ...ScrubberOption) (FileScrubber, error) {
	header, err := ResolveGlobalHeader(variant, "")
	if err != nil {
		return nil, err
	}
	return NewDateUIDGIDScrubber(header, opts...), nil
}

// ScrubBytes scrubs an archive held in memory and returns the report
func ScrubBytes(data []byte, expectedGlobalHeader []byte, opts ...ScrubberOption) (*ScrubReport, error) {
	return NewDateUIDGIDScrubber(expectedGlobalHeader, opts...).Scrub(NewMemFile(data))
}
