package journal

import "fmt"

// ValidationError reports a malformed field on a single record. It rejects
// that record only; batch processing continues with the remaining records.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// RecordError pairs a rejected raw record with the reason it was rejected.
type RecordError struct {
	Record RawTradeRecord
	Reason error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %s %s %s: %v", e.Record.Pair, e.Record.Side, e.Record.Time.Format("2006-01-02 15:04:05"), e.Reason)
}
