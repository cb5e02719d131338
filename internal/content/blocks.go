// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

//go:embed blocks.schema.json
var blockSchemaJSON []byte

var compileBlockSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("blocks.schema.json", bytes.NewReader(blockSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	return compiler.Compile("blocks.schema.json")
})

// FlatTextToBlocks turns every non-empty trimmed line of text into a
// paragraph block.
func FlatTextToBlocks(text string) []types.ContentBlock {
	blocks := []types.ContentBlock{}
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			blocks = append(blocks, types.Paragraph(line))
		}
	}
	return blocks
}

// BlocksFromMarkdown maps ATX headings ("#" through "######" followed by a
// space) to heading blocks carrying their level. Consecutive non-heading
// lines form one paragraph block, ended by a blank line or a heading; the
// lines of a paragraph are joined with newlines.
func BlocksFromMarkdown(md string) []types.ContentBlock {
	blocks := []types.ContentBlock{}
	var para []string
	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, types.Paragraph(strings.Join(para, "\n")))
			para = para[:0]
		}
	}

	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if level, text, ok := atxHeading(line); ok {
			flush()
			blocks = append(blocks, types.Heading(text, level))
			continue
		}
		para = append(para, line)
	}
	flush()
	return blocks
}

func atxHeading(line string) (int, string, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || line[level] != ' ' {
		return 0, "", false
	}
	text := strings.TrimSpace(strings.TrimRight(line[level:], "#"))
	if text == "" {
		return 0, "", false
	}
	return level, text, true
}

// blockFile is the on-disk shape of a structured block document.
type blockFile struct {
	Blocks []types.ContentBlock `json:"blocks" yaml:"blocks"`
}

// DecodeJSONBlocks validates data against the block schema and decodes it.
func DecodeJSONBlocks(data []byte) ([]types.ContentBlock, error) {
	schema, err := compileBlockSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling block schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing block JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("block JSON does not match schema: %w", err)
	}

	var f blockFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding blocks: %w", err)
	}
	return nonNil(f.Blocks), nil
}

// DecodeYAMLBlocks decodes a YAML block file. YAML input is converted to
// JSON and held to the same schema.
func DecodeYAMLBlocks(data []byte) ([]types.ContentBlock, error) {
	var f blockFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing block YAML: %w", err)
	}
	js, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("re-encoding blocks: %w", err)
	}
	return DecodeJSONBlocks(js)
}

func nonNil(blocks []types.ContentBlock) []types.ContentBlock {
	if blocks == nil {
		return []types.ContentBlock{}
	}
	return blocks
}
