// Package esql is the runtime data-access layer for COBOL programs with
// embedded SQL. A generated call sequence obtains a backend driver from
// the factory, connects through it, and issues direct, prepared or
// cursor-based statements against PostgreSQL, ODBC, MySQL, Oracle or
// SQLite without knowing which backend is active.
//
// The engine presents one stateful contract (driver.Driver) over the
// backend client libraries, preserving byte-level compatibility with
// COBOL host-variable encodings (package cobol) and a queryable
// (code, SQLSTATE, message) status record (package dberr).
package esql
