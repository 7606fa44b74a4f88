package engine

import (
	"strconv"
	"strings"
)

// PlaceholderStyle is the positional parameter syntax a backend expects.
type PlaceholderStyle int

const (
	// PlaceholderQuestion keeps ?-style placeholders (MySQL, SQLite, ODBC).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar numbers placeholders $1..$n (PostgreSQL).
	PlaceholderDollar
	// PlaceholderColon numbers placeholders :1..:n (Oracle).
	PlaceholderColon
)

// FixupPlaceholders rewrites ?-style and :name-style placeholders into the
// backend's native positional syntax. Quoted string literals are left
// untouched; the characters of a :name identifier are consumed.
func FixupPlaceholders(sql string, style PlaceholderStyle) string {
	var out strings.Builder
	out.Grow(len(sql) + 8)

	n := 1
	inSingle := false
	inDouble := false
	inParamID := false

	for _, c := range sql {
		if inParamID && (c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			continue
		}
		inParamID = false

		switch c {
		case '"':
			out.WriteRune(c)
			inDouble = !inDouble

		case '\'':
			out.WriteRune(c)
			inSingle = !inSingle

		case '?', ':':
			if inSingle || inDouble {
				out.WriteRune(c)
				continue
			}
			switch style {
			case PlaceholderDollar:
				out.WriteString("$" + strconv.Itoa(n))
			case PlaceholderColon:
				out.WriteString(":" + strconv.Itoa(n))
			default:
				out.WriteByte('?')
			}
			n++
			inParamID = true

		default:
			out.WriteRune(c)
		}
	}

	return out.String()
}

// firstKeyword returns the lowercased first word of a statement.
func firstKeyword(sql string) string {
	s := strings.TrimSpace(sql)
	for i, c := range s {
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == ';' || c == '(' {
			return strings.ToLower(s[:i])
		}
	}
	return strings.ToLower(s)
}

// IsTxTermination reports whether sql is a whole-statement COMMIT or
// ROLLBACK, matched case-insensitively. A substring match is not enough:
// "commit" inside a longer statement must not trip the autocommit trap.
func IsTxTermination(sql string) bool {
	s := strings.ToLower(strings.TrimSpace(sql))
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSpace(s)
	switch s {
	case "commit", "commit work", "rollback", "rollback work":
		return true
	}
	return false
}

// IsUpdateOrDelete reports whether sql is an update- or delete-shaped
// statement, whose success with zero affected rows must look like a
// no-data condition at the embedded-SQL call site.
func IsUpdateOrDelete(sql string) bool {
	switch firstKeyword(sql) {
	case "update", "delete":
		return true
	}
	return false
}

// ReturnsRows reports whether sql produces a row set (as opposed to an
// affected-row count). DML with a RETURNING clause counts as a row set.
// CTE-led DML without RETURNING still materializes, as an empty one.
func ReturnsRows(sql string) bool {
	switch firstKeyword(sql) {
	case "select", "with", "values", "show", "fetch", "pragma", "explain":
		return true
	case "insert", "update", "delete":
		return hasReturningClause(sql)
	}
	return false
}

// hasReturningClause reports whether sql carries a RETURNING keyword
// outside any string literal or quoted identifier.
func hasReturningClause(sql string) bool {
	s := strings.ToLower(sql)
	inSingle := false
	inDouble := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
			continue
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
			continue
		}
		if inSingle || inDouble || s[i] != 'r' || !strings.HasPrefix(s[i:], "returning") {
			continue
		}
		before := i == 0 || !isIdentChar(s[i-1])
		end := i + len("returning")
		after := end == len(s) || !isIdentChar(s[end])
		if before && after {
			return true
		}
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z'
}
