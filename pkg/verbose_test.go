package arscrub

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugFlags(t *testing.T) {
	defer SetDebugFlags("")

	SetDebugFlags("entries, IO:false ,,extra:yes")
	assert.True(t, IsDebugEnabled(DebugEntries))
	assert.False(t, IsDebugEnabled(DebugIO))
	assert.True(t, IsDebugEnabled("EXTRA"))
	assert.False(t, IsDebugEnabled("missing"))

	SetDebugFlags("")
	assert.False(t, IsDebugEnabled(DebugEntries))
}

func TestScrubLogging(t *testing.T) {
	var out bytes.Buffer
	SetLogOutput(&out)
	SetVerboseLevel(2)
	InitDebugFlags("entries")
	defer func() {
		SetLogOutput(nil)
		SetVerboseLevel(0)
		SetDebugFlags("")
	}()

	data := buildArchive(leftAlign, sampleEntries()...)
	_, err := ScrubBytes(data, []byte(GlobalHeaderArch))
	require.NoError(t, err)

	log := out.String()
	assert.Contains(t, log, "[VERBOSE-1] Scrubbing archive")
	assert.Contains(t, log, `[VERBOSE-2] Entry "bb.o"`)
	assert.Contains(t, log, "[ENTRIES] -> validated")
	assert.Contains(t, log, "-> done")
	assert.NotContains(t, log, "[TRACE]")
}

func TestVerboseLogLevel(t *testing.T) {
	var out bytes.Buffer
	SetLogOutput(&out)
	defer SetLogOutput(nil)

	SetVerboseLevel(1)
	defer SetVerboseLevel(0)

	VerboseLog(2, "hidden")
	VerboseLog(1, "shown %d", 7)
	assert.Equal(t, "[VERBOSE-1] shown 7\n", out.String())
	assert.Equal(t, 1, GetVerboseLevel())
}
