package maincmd

import (
	"github.com/mna/matiria/lang/ast"
	"github.com/mna/matiria/lang/resolver"
	"github.com/mna/matiria/lang/token"
	"github.com/mna/matiria/lang/types"
)

// resolveChunk runs the resolver over an already-parsed chunk, a small
// wrapper kept so the parse/resolve/compile/run commands share one call
// site instead of each importing lang/resolver directly.
func resolveChunk(fset *token.FileSet, chunk *ast.Chunk, reg *types.Registry) error {
	return resolver.Resolve(fset, chunk, reg)
}
