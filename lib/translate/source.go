package translate

import (
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/ast"
)

// ResolveSource returns the literal name of the single plain table in from.
// Only the first part of a qualified name is kept, so "a"."b" resolves to a.
func ResolveSource(from []ast.TableExpr) (string, error) {
	if len(from) != 1 {
		return "", newError(ErrMultipleSources, "expected exactly one table in FROM, got %d", len(from))
	}
	switch t := from[0].(type) {
	case *ast.TableName:
		if t == nil || t.Name == nil || len(t.Name.Parts) == 0 {
			return "", newError(ErrUnsupportedRelation, "empty table name")
		}
		return t.Name.Parts[0], nil
	case *ast.JoinExpr:
		return "", newError(ErrJoinNotSupported, "%s", describe(t))
	default:
		return "", newError(ErrUnsupportedRelation, "%s", describe(from[0]))
	}
}

// sourceAlias returns the alias of a plain table source, if any.
func sourceAlias(from []ast.TableExpr) string {
	if len(from) != 1 {
		return ""
	}
	if t, ok := from[0].(*ast.TableName); ok && t != nil {
		return t.Alias
	}
	return ""
}
