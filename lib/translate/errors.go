package translate

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/ast"
	"github.com/VictoriaMetrics-Community/sql2frame/lib/sql/render"
)

// Error kinds carried by TranslationError.Err. Match them with errors.Is.
var (
	ErrMultipleStatements    = errors.New("multiple statements")
	ErrUnsupportedStatement  = errors.New("unsupported statement")
	ErrMultipleSources       = errors.New("multiple sources")
	ErrJoinNotSupported      = errors.New("join not supported")
	ErrUnsupportedRelation   = errors.New("unsupported relation")
	ErrUnsupportedExpression = errors.New("unsupported expression")
	ErrUnsupportedOperator   = errors.New("unsupported operator")
	ErrUnsupportedLiteral    = errors.New("unsupported literal")
	ErrUnsupportedProjection = errors.New("unsupported projection")
	ErrUnsupportedOrderBy    = errors.New("unsupported ORDER BY")
)

type TranslationError struct {
	Code    int
	Message string
	Err     error
}

func (e *TranslationError) Error() string {
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func newError(kind error, format string, args ...interface{}) *TranslationError {
	return &TranslationError{
		Code:    http.StatusBadRequest,
		Message: "translator: " + kind.Error() + ": " + fmt.Sprintf(format, args...),
		Err:     kind,
	}
}

// describe renders node as SQL for error messages.
func describe(node ast.Node) string {
	if node == nil {
		return "<nil>"
	}
	out, err := render.Render(node)
	if err != nil {
		return fmt.Sprintf("%T", node)
	}
	return out
}
