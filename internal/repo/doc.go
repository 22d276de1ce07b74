// Package repo хранит историю выполненных run'ов в PostgreSQL (pgx).
package repo
