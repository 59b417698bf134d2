package arscrub

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubErrorKinds(t *testing.T) {
	cause := errors.New("underlying")
	err := fmt.Errorf("entry 3 at offset 200: %w", newScrubError(KindIO, cause, "not all bytes have been written"))

	assert.True(t, errors.Is(err, ErrIO))
	assert.False(t, errors.Is(err, ErrFormat))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindIO, KindOf(err))
	assert.Equal(t, "entry 3 at offset 200: scrub io error: not all bytes have been written: underlying", err.Error())

	assert.Equal(t, ErrorKind(0), KindOf(cause))
	assert.Equal(t, "unknown", ErrorKind(0).String())
}

func TestCheckArchive(t *testing.T) {
	assert.NoError(t, checkArchive(true, KindFormat, "unused"))

	err := checkArchive(false, KindTruncation, "invalid entry metadata format")
	assert.True(t, errors.Is(err, ErrTruncation))
	assert.Equal(t, "scrub truncation error: invalid entry metadata format", err.Error())
}
