package arscrub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVariantScrubber(t *testing.T) {
	for _, variant := range []string{VariantGNU, VariantBSD, "GNU"} {
		scrubber, err := NewVariantScrubber(variant)
		require.NoError(t, err, variant)

		data := buildArchive(leftAlign, sampleEntries()...)
		assert.NoError(t, scrubber.ScrubFile(NewMemFile(data)), variant)
	}

	_, err := NewVariantScrubber("coff")
	assert.Error(t, err)

	_, err = NewVariantScrubber(VariantCustom)
	assert.Error(t, err)
}

func TestVariantHeader(t *testing.T) {
	header, ok := VariantHeader("thin")
	require.True(t, ok)
	assert.Equal(t, []byte("!<thin>\n"), header)

	_, ok = VariantHeader("custom")
	assert.False(t, ok)
}

func TestScrubBytesThinArchive(t *testing.T) {
	data := buildArchive(leftAlign, sampleEntries()...)
	copy(data, GlobalHeaderThin)

	report, err := ScrubBytes(data, []byte(GlobalHeaderThin))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Entries)

	_, err = ScrubBytes(data, []byte(GlobalHeaderArch))
	assert.True(t, errors.Is(err, ErrFormat))
}
