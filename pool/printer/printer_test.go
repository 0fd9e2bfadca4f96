package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/poolkit/pool/alloc"
	"github.com/joshuapare/poolkit/pool/fixed"
)

func TestBlocksTextOneLinePerBlock(t *testing.T) {
	blocks := []alloc.BlockInfo{
		{Offset: 0, Size: 64, Status: alloc.StatusUsed},
		{Offset: 80, Size: 160, Status: alloc.StatusFree},
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Blocks(blocks, alloc.Stats{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3) // header + one line per block
	assert.Contains(t, lines[1], "0x00000000")
	assert.Contains(t, lines[1], "used")
	assert.Contains(t, lines[1], "64")
	assert.Contains(t, lines[2], "0x00000050")
	assert.Contains(t, lines[2], "free")
	assert.Contains(t, lines[2], "160")
}

func TestBlocksTextWithStats(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{ShowStats: true})
	require.NoError(t, p.Blocks(nil, alloc.Stats{AllocCalls: 7, SplitCount: 3}))

	out := buf.String()
	assert.Contains(t, out, "allocs=7")
	assert.Contains(t, out, "splits=3")
}

func TestBlocksJSON(t *testing.T) {
	blocks := []alloc.BlockInfo{
		{Offset: 0, Size: 240, Status: alloc.StatusFree},
	}

	var buf bytes.Buffer
	p := New(&buf, Options{Format: FormatJSON, ShowStats: true})
	require.NoError(t, p.Blocks(blocks, alloc.Stats{AllocCalls: 2}))

	var got struct {
		Blocks []struct {
			Offset int32  `json:"offset"`
			Size   uint32 `json:"size"`
			Status string `json:"status"`
		} `json:"blocks"`
		Stats struct {
			AllocCalls int `json:"alloc_calls"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Blocks, 1)
	assert.Equal(t, "free", got.Blocks[0].Status)
	assert.Equal(t, uint32(240), got.Blocks[0].Size)
	assert.Equal(t, 2, got.Stats.AllocCalls)
}

func TestBlocksJSONOmitsStatsWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, Options{Format: FormatJSON})
	require.NoError(t, p.Blocks(nil, alloc.Stats{AllocCalls: 9}))
	assert.NotContains(t, buf.String(), "alloc_calls")
}

func TestSlotsText(t *testing.T) {
	slots := []fixed.SlotInfo{
		{Offset: 0, Free: true},
		{Offset: 16, Free: false},
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).Slots(slots))

	out := buf.String()
	assert.Contains(t, out, "0x00000000 free")
	assert.Contains(t, out, "0x00000010 used")
}

func TestSlotsJSON(t *testing.T) {
	slots := []fixed.SlotInfo{{Offset: 32, Free: false}}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{Format: FormatJSON}).Slots(slots))

	var got struct {
		Slots []fixed.SlotInfo `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, slots, got.Slots)
}

func TestHexDump(t *testing.T) {
	data := make([]byte, 20)
	copy(data, "FREE")
	data[4] = 0x00
	data[5] = 0xFF // y-umlaut in Windows-1252, printable

	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).HexDump(data))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2) // 16 bytes, then the 4-byte tail
	assert.True(t, strings.HasPrefix(lines[0], "00000000"))
	assert.Contains(t, lines[0], "46 52 45 45") // "FREE"
	assert.Contains(t, lines[0], "|FREE.ÿ")
	assert.True(t, strings.HasPrefix(lines[1], "00000010"))
}

func TestHexDumpEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, Options{}).HexDump(nil))
	assert.Empty(t, buf.String())
}
