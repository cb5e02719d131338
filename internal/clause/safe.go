// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package clause

import (
	"go.uber.org/zap"

	"github.com/pdiddy/knowledge-hub/pkg/types"
)

// SafeExtract runs Extract and converts a panic into an empty result so a
// malformed document reads as "no clauses found" rather than a server error.
func SafeExtract(log *zap.Logger, content string) (clauses []types.Clause) {
	defer recoverEmpty(log, &clauses)
	return Extract(content)
}

// SafeExtractBlocks is SafeExtract for structured content.
func SafeExtractBlocks(log *zap.Logger, blocks []types.ContentBlock) (clauses []types.Clause) {
	defer recoverEmpty(log, &clauses)
	return ExtractBlocks(blocks)
}

func recoverEmpty(log *zap.Logger, clauses *[]types.Clause) {
	if r := recover(); r != nil {
		if log != nil {
			log.Error("clause extraction panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		*clauses = []types.Clause{}
	}
}
