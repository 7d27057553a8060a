// Package ingest reads transaction records from CSV input.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/payments-engine/internal/model"
)

// Column names expected in the header row.
const (
	ColumnType   = "type"
	ColumnClient = "client"
	ColumnTX     = "tx"
	ColumnAmount = "amount"
)

// Ingestion errors.
var (
	ErrMissingHeader = errors.New("missing header row")
	ErrMissingColumn = errors.New("missing required column")
	ErrMissingField  = errors.New("missing required field")
)

// MalformedRecordError reports a row that could not be parsed. Callers skip
// such rows and keep reading.
type MalformedRecordError struct {
	Err  error
	Line int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record on line %d: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Reader yields one transaction per CSV row. Rows are parsed lazily as Next is
// called.
type Reader struct {
	csv     *csv.Reader
	columns map[string]int
}

// NewReader reads the header row from r and returns a Reader positioned at
// the first record.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	// Dispute rows usually omit the amount column entirely.
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, required := range []string{ColumnType, ColumnClient, ColumnTX} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	return &Reader{csv: cr, columns: columns}, nil
}

// Next returns the next transaction. It returns io.EOF when the input is
// exhausted and a *MalformedRecordError for a row that cannot be parsed.
// Any other error means the input itself is unreadable.
func (r *Reader) Next() (model.Transaction, error) {
	record, err := r.csv.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return model.Transaction{}, &MalformedRecordError{Line: parseErr.Line, Err: parseErr.Err}
		}
		return model.Transaction{}, err
	}

	line, _ := r.csv.FieldPos(0)
	tx, err := r.parse(record)
	if err != nil {
		return model.Transaction{}, &MalformedRecordError{Line: line, Err: err}
	}
	return tx, nil
}

// field returns the trimmed value of a column, or "" if the row is too short.
func (r *Reader) field(record []string, column string) string {
	i, ok := r.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (r *Reader) required(record []string, column string) (string, error) {
	v := r.field(record, column)
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, column)
	}
	return v, nil
}

func (r *Reader) parse(record []string) (model.Transaction, error) {
	var tx model.Transaction

	raw, err := r.required(record, ColumnType)
	if err != nil {
		return tx, err
	}
	if tx.Type, err = model.ParseTransactionType(raw); err != nil {
		return tx, err
	}

	if raw, err = r.required(record, ColumnClient); err != nil {
		return tx, err
	}
	client, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return tx, fmt.Errorf("invalid client %q: %w", raw, err)
	}
	tx.Client = model.ClientID(client)

	if raw, err = r.required(record, ColumnTX); err != nil {
		return tx, err
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return tx, fmt.Errorf("invalid tx %q: %w", raw, err)
	}
	tx.TX = model.TransactionID(id)

	if raw = r.field(record, ColumnAmount); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return tx, fmt.Errorf("invalid amount %q: %w", raw, err)
		}
		tx.Amount = &amount
	}

	return tx, nil
}
