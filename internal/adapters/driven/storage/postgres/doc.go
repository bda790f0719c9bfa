// Package postgres provides Postgres sinks for document and vector records.
//
// Documents go to a table with the same columns as the D1 import script.
// Vectors go to a pgvector table; the vector extension is created on demand.
package postgres
