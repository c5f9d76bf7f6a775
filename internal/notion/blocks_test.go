package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockText(t *testing.T, b Block) string {
	t.Helper()
	kind, _ := b["type"].(string)
	inner, ok := b[kind].(map[string]any)
	require.True(t, ok, "block %q has no payload", kind)
	runs, ok := inner["rich_text"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, runs, 1)
	text := runs[0]["text"].(map[string]any)
	return text["content"].(string)
}

func TestSegmentTextDoubleBreak(t *testing.T) {
	blocks := SegmentText("A\n\nB")
	require.Len(t, blocks, 2)
	assert.Equal(t, "paragraph", blocks[0]["type"])
	assert.Equal(t, "A", blockText(t, blocks[0]))
	assert.Equal(t, "B", blockText(t, blocks[1]))
}

func TestSegmentTextNormalizesLineEndings(t *testing.T) {
	blocks := SegmentText("A\r\n\r\nB\r\rC")
	require.Len(t, blocks, 3)
	assert.Equal(t, "A", blockText(t, blocks[0]))
	assert.Equal(t, "B", blockText(t, blocks[1]))
	assert.Equal(t, "C", blockText(t, blocks[2]))
}

func TestSegmentTextNoBreaksSingleParagraph(t *testing.T) {
	blocks := SegmentText("just one line\nwith a soft break")
	require.Len(t, blocks, 1)
	assert.Equal(t, "just one line\nwith a soft break", blockText(t, blocks[0]))
}

func TestSegmentTextAllBlankFallsBackVerbatim(t *testing.T) {
	in := "  \n\n  \n\n "
	blocks := SegmentText(in)
	require.Len(t, blocks, 1)
	assert.Equal(t, in, blockText(t, blocks[0]))
}

func TestSegmentTextTrimsSegments(t *testing.T) {
	blocks := SegmentText("  first  \n\n\n\n  second  ")
	require.Len(t, blocks, 2)
	assert.Equal(t, "first", blockText(t, blocks[0]))
	assert.Equal(t, "second", blockText(t, blocks[1]))
}

func TestHeadingLevelClamped(t *testing.T) {
	assert.Equal(t, "heading_1", Heading(0, "x")["type"])
	assert.Equal(t, "heading_1", Heading(-2, "x")["type"])
	assert.Equal(t, "heading_2", Heading(2, "x")["type"])
	assert.Equal(t, "heading_3", Heading(3, "x")["type"])
	assert.Equal(t, "heading_3", Heading(9, "x")["type"])
}

func TestDividerShape(t *testing.T) {
	d := Divider()
	assert.Equal(t, "divider", d["type"])
	assert.Equal(t, map[string]any{}, d["divider"])
}

func TestCovenantDocumentStructure(t *testing.T) {
	doc := CovenantDocument()
	require.NotEmpty(t, doc)

	kinds := make([]string, 0, len(doc))
	for _, b := range doc {
		kinds = append(kinds, b["type"].(string))
	}
	assert.Equal(t, "heading_1", kinds[0])
	assert.Contains(t, kinds, "bulleted_list_item")
	assert.Contains(t, kinds, "divider")
	assert.Equal(t, "paragraph", kinds[len(kinds)-1])
}
