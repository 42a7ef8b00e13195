// Package http provides HTTP handlers and middleware for the roster API.
//
// The router exposes the following endpoints:
//   - GET /people, POST /people, GET /people/{id}, PUT /people/{id},
//     DELETE /people/{id}: roster member management. POST /people/{id}/roles
//     and DELETE /people/{id}/roles grant and revoke capabilities;
//     POST /people/{id}/blocks and DELETE /people/{id}/blocks/{index} manage
//     availability blocks.
//   - GET /events, POST /events, PUT /events/{id}, DELETE /events/{id}:
//     event management. PUT /events/{id}/pool restricts the event to a
//     candidate pool.
//   - GET /recurrences, POST /recurrences, DELETE /recurrences/{id}:
//     recurrence definitions. POST /recurrences/{id}/generate materializes
//     events over a period. GET /series, PUT /series/{id}/pool,
//     POST /series/{id}/rebase, DELETE /series/{id} manage generated series.
//   - POST /schedule/recalculate, POST /schedule/reset: bulk assignment
//     operations scoped by an optional period and an optional tie-break seed.
//   - PUT /assignments, POST /assignments/clear, POST /assignments/swap:
//     manual slot operations.
//   - GET /events/{id}/suggestions: ranked candidates for one slot.
//   - GET /schedule, GET /schedule/unfilled, GET /schedule/conflicts,
//     GET /schedule/stats: schedule views and diagnostics.
//   - GET /schedule/export.csv, GET /schedule/export.ics: schedule exports.
//   - POST /undo: reverts the most recent mutating operation.
//   - POST /state/save, POST /state/load: snapshot persistence.
//   - GET /metrics: Prometheus metrics.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http
