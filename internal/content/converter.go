// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/knowledge-hub/internal/container"
)

// DefaultImage is the markitdown image used when none is configured.
const DefaultImage = "markitdown:latest"

// Converter transforms a binary document (PDF, DOCX) into Markdown text.
type Converter interface {
	Convert(ctx context.Context, path string) (string, error)
}

// MarkitdownConverter converts documents by piping them through the
// markitdown container image. It depends on a container.Runtime (docker or
// podman) injected at construction time.
type MarkitdownConverter struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownConverter creates a converter that uses the given container
// runtime to run image (DefaultImage when empty). It verifies that the image
// exists locally before returning.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime, image string) (*MarkitdownConverter, error) {
	if image == "" {
		image = DefaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("markitdown image %s not available in %s: %w", image, rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt, image: image}, nil
}

// Convert reads the document at path, pipes it through the markitdown
// container, and returns the resulting Markdown text.
func (m *MarkitdownConverter) Convert(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening document %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, m.image, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", path, err)
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", path)
	}

	return out.String(), nil
}
