package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemTableDefaults(t *testing.T) {
	mt := NewMemTable()

	assert.Equal(t, 1.5, mt.GetNumber("missing", 1.5))
	assert.True(t, mt.GetBoolean("missing", true))

	_, ok := mt.Lookup("missing")
	assert.False(t, ok)
}

func TestMemTableStagingUntilFlush(t *testing.T) {
	mt := NewMemTable()

	mt.PutNumber("X", 3.0)
	mt.PutBoolean("HasTarget", true)

	// Staged writes are invisible to readers until Flush.
	assert.Equal(t, 0.0, mt.GetNumber("X", 0.0))
	assert.False(t, mt.GetBoolean("HasTarget", false))

	require.NoError(t, mt.Flush())

	assert.Equal(t, 3.0, mt.GetNumber("X", 0.0))
	assert.True(t, mt.GetBoolean("HasTarget", false))
	assert.Equal(t, 1, mt.Flushes())
}

func TestMemTableSetAndDelete(t *testing.T) {
	mt := NewMemTable()

	mt.SetNumber("Theta", 0.7)
	v, ok := mt.Lookup("Theta")
	require.True(t, ok)
	assert.Equal(t, 0.7, v)

	mt.Delete("Theta")
	_, ok = mt.Lookup("Theta")
	assert.False(t, ok)
	assert.Equal(t, 9.0, mt.GetNumber("Theta", 9.0))
}

func TestClientIngestParsing(t *testing.T) {
	c := NewClient(DefaultConfig())

	c.ingest("X", "3.25")
	assert.Equal(t, 3.25, c.GetNumber("X", 0.0))

	c.ingest("Theta", " -1.5 \n")
	assert.Equal(t, -1.5, c.GetNumber("Theta", 0.0))

	c.ingest("HasTarget", "true")
	assert.True(t, c.GetBoolean("HasTarget", false))
	c.ingest("HasTarget", "False")
	assert.False(t, c.GetBoolean("HasTarget", true))

	// Garbage is dropped, leaving the reader's default in effect.
	c.ingest("Y", "not-a-number")
	assert.Equal(t, 7.0, c.GetNumber("Y", 7.0))
	_, ok := c.Lookup("Y")
	assert.False(t, ok)
}

func TestClientFlushRequiresConnection(t *testing.T) {
	c := NewClient(DefaultConfig())
	c.PutNumber("X", 1.0)
	assert.Error(t, c.Flush())
	assert.False(t, c.IsConnected())
}
