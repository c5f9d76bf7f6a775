package notion

import (
	"fmt"
	"strings"
)

// Block is one content unit in remote wire form. Builders below are the only
// producers, so every block this layer sends has a known shape.
type Block map[string]any

// Paragraph builds a paragraph block with a single text run.
func Paragraph(text string) Block {
	return richBlock("paragraph", text)
}

// Heading builds a heading block. Levels outside [1,3] are clamped.
func Heading(level int, text string) Block {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	return richBlock(fmt.Sprintf("heading_%d", level), text)
}

// Bullet builds a bulleted list item block.
func Bullet(text string) Block {
	return richBlock("bulleted_list_item", text)
}

// Divider builds a divider block.
func Divider() Block {
	return Block{
		"object":  "block",
		"type":    "divider",
		"divider": map[string]any{},
	}
}

func richBlock(kind, text string) Block {
	return Block{
		"object": "block",
		"type":   kind,
		kind: map[string]any{
			"rich_text": []map[string]any{textRun(text)},
		},
	}
}

// SegmentText splits free text into paragraph blocks on double line breaks,
// after normalizing line-ending variants. When no non-empty segment survives
// the split, the original text goes out verbatim as a single paragraph, so
// any non-empty input yields at least one block.
func SegmentText(text string) []Block {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var blocks []Block
	for _, seg := range strings.Split(normalized, "\n\n") {
		if t := strings.TrimSpace(seg); t != "" {
			blocks = append(blocks, Paragraph(t))
		}
	}
	if len(blocks) == 0 {
		blocks = append(blocks, Paragraph(text))
	}
	return blocks
}

// CovenantDocument is the fixed seed template written by the covenant
// endpoint. Only the page properties vary; the body is always this document.
func CovenantDocument() []Block {
	return []Block{
		Heading(1, "The Covenant"),
		Paragraph("This page anchors the journal. It is written once and tended, not rewritten."),
		Heading(2, "Tenets"),
		Bullet("Record what happened, not what should have happened."),
		Bullet("One entry per sitting; let the compass carry the threads."),
		Bullet("Shadow work stays marked as shadow work."),
		Divider(),
		Paragraph("Signed in seed, grown in phase."),
	}
}
