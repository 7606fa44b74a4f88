package driver

// ResultContextType tags which result-set slot a value-retrieval call
// consults. The slot is always selected explicitly by the caller, never
// inferred.
type ResultContextType int

const (
	// ContextAmbient selects the result of the last unnamed execution.
	ContextAmbient ResultContextType = iota
	// ContextPrepared selects a prepared statement's result by name.
	ContextPrepared
	// ContextCursor selects an open cursor's result.
	ContextCursor
)

// ResultContext selects one of the three result-set ownership slots.
type ResultContext struct {
	Type          ResultContextType
	StatementName string
	Cursor        *Cursor
}

// AmbientResult selects the ambient result slot.
func AmbientResult() ResultContext {
	return ResultContext{Type: ContextAmbient}
}

// PreparedResult selects the result of the named prepared statement.
func PreparedResult(name string) ResultContext {
	return ResultContext{Type: ContextPrepared, StatementName: name}
}

// CursorResult selects the result bound to an open cursor.
func CursorResult(c *Cursor) ResultContext {
	return ResultContext{Type: ContextCursor, Cursor: c}
}
