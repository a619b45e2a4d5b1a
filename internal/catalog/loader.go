package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"precos-materiais-api/internal/normalize"
)

var nameColumns = map[string]struct{}{
	"material":      {},
	"materiais":     {},
	"nome":          {},
	"nome_material": {},
}

var priceColumns = map[string]struct{}{
	"preco": {},
	"preço": {},
	"price": {},
}

// Loader fetches the published sheet as CSV and parses it into a fresh
// Catalog snapshot. It never touches shared state; swapping the snapshot
// in is the Store's job.
type Loader struct {
	sourceURL string
	client    *http.Client
	logger    *slog.Logger
}

// NewLoader returns a Loader bound to the sheet URL with a bounded fetch
// timeout.
func NewLoader(sourceURL string, timeout time.Duration, logger *slog.Logger) *Loader {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Loader{
		sourceURL: strings.TrimSpace(sourceURL),
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// SourceURL reports the configured sheet URL.
func (l *Loader) SourceURL() string { return l.sourceURL }

// Load downloads and parses the sheet. Failure modes: ErrSourceUnset when
// no URL is configured, FetchError on transport or non-2xx status,
// FormatError on unusable content, ErrEmptyCatalog when no row survives
// parsing.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	if l.sourceURL == "" {
		return nil, ErrSourceUnset
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.sourceURL, nil)
	if err != nil {
		return nil, &FetchError{URL: l.sourceURL, Err: err}
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: l.sourceURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: l.sourceURL, StatusCode: resp.StatusCode}
	}

	return l.parse(resp.Body, time.Now().UTC())
}

func (l *Loader) parse(r io.Reader, fetchedAt time.Time) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &FormatError{Reason: "Conteúdo da planilha não pôde ser lido como CSV.", Err: err}
	}

	nameIdx, priceIdx := -1, -1
	for i, col := range header {
		c := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, ok := nameColumns[c]; ok {
			nameIdx = i
		}
		if _, ok := priceColumns[c]; ok {
			priceIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, &FormatError{Reason: "Cabeçalho não encontrado. Esperado colunas 'material' (ou 'materiais') e 'preco'."}
	}
	if priceIdx < 0 {
		return nil, &FormatError{Reason: "Coluna de preço não encontrada (ex.: 'preco')."}
	}

	entries := map[string]Entry{}
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &FormatError{Reason: "Conteúdo da planilha não pôde ser lido como CSV.", Err: err}
		}

		name := strings.TrimSpace(field(record, nameIdx))
		if name == "" {
			continue
		}
		price, perr := ParsePrice(field(record, priceIdx))
		if perr != nil {
			skipped++
			continue
		}
		key := normalize.Key(name)
		if key == "" {
			continue
		}
		// Last row wins on duplicate keys, matching the sheet's own
		// "latest row is authoritative" convention.
		entries[key] = Entry{Key: key, Name: name, Price: price}
	}

	if skipped > 0 && l.logger != nil {
		l.logger.Warn("sheet rows skipped by unparseable price", slog.Int("rows", skipped))
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return newCatalog(entries, fetchedAt), nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}
