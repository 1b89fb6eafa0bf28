// Package entityquery turns ports.ReadParameters into gorm clauses over a fixed
// set of whitelisted columns, and translates gorm errors into command error
// kinds. Every entity repository builds on it.
package entityquery
