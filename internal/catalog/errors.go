package catalog

import (
	"errors"
	"fmt"
)

// Error messages that reach the HTTP response body stay in Portuguese to
// match the wire contract of the service.
var (
	// ErrSourceUnset means no sheet URL was configured; the process keeps
	// running degraded and every load attempt fails with this error.
	ErrSourceUnset = errors.New("MATERIAIS_URL não configurada nas variáveis de ambiente.")

	// ErrEmptyCatalog means the sheet parsed but produced zero valid rows.
	// An empty catalog is never a valid load result.
	ErrEmptyCatalog = errors.New("Nenhum material válido encontrado no CSV.")
)

// FetchError reports a failed retrieval of the source sheet, either a
// transport failure or a non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Falha ao baixar a planilha de %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("Falha ao baixar a planilha de %s: status HTTP %d", e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FormatError reports sheet content that cannot be interpreted as the
// expected delimited table.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string { return e.Reason }

func (e *FormatError) Unwrap() error { return e.Err }
