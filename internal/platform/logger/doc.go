// Package logger sets up the service's JSON slog output at the level named by
// server.log_level and passes request loggers, tagged with trace_id by the
// HTTP middleware, down to services and queued book inserts via context.
package logger
