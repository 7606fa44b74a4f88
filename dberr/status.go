package dberr

// Status is the per-connection error/state record. Every driver operation
// refreshes it unconditionally, success included, so a stale failure can
// never leak into a later success check.
type Status struct {
	Code    int
	State   string
	Message string
}

// Clear resets the record to the success triple.
func (s *Status) Clear() {
	s.Code = CodeOK
	s.State = StateOK
	s.Message = ""
}

// Set overwrites the record.
func (s *Status) Set(code int, state, message string) {
	s.Code = code
	s.State = state
	s.Message = message
}

// SetError overwrites the record from an engine error and passes the error
// through, so call sites can record and return in one expression.
func (s *Status) SetError(err *Error) error {
	s.Code = err.Code
	s.State = err.State
	s.Message = err.Message
	return err
}

// OK reports whether the record holds the success triple.
func (s *Status) OK() bool {
	return s.Code == CodeOK
}
