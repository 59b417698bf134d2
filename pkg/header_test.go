package arscrub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGlobalHeader(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		expected string
		kind     ErrorKind
	}{
		{"match", "!<arch>\nrest", GlobalHeaderArch, 0},
		{"exact length", "!<thin>\n", GlobalHeaderThin, 0},
		{"mismatch", "!<thin>\nrest", GlobalHeaderArch, KindFormat},
		{"short file", "!<ar", GlobalHeaderArch, KindFormat},
		{"empty file", "", GlobalHeaderArch, KindFormat},
		{"empty signature", "!<arch>\n", "", KindFormat},
		{"custom signature", "MAGIC!rest", "MAGIC!", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []byte(tt.data)
			err := ValidateGlobalHeader(NewMemFile(data), []byte(tt.expected))
			if tt.kind == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.data, string(data))
		})
	}
}

type errReaderFile struct {
	*MemFile
	err error
}

func (f errReaderFile) ReadAt(p []byte, off int64) (int, error) {
	return 0, f.err
}

func TestValidateGlobalHeaderReadError(t *testing.T) {
	cause := errors.New("i/o timeout")
	err := ValidateGlobalHeader(errReaderFile{NewMemFile(nil), cause}, []byte(GlobalHeaderArch))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))
}
