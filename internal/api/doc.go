// Package api — read-only HTTP API поверх работающего daemon'а.
//
// Endpoints:
//   - GET /api/v1/status  — счётчики и сводка (визиты, пропуски, очередь)
//   - GET /api/v1/workers — состояние каждого worker'а
//   - GET /api/v1/jobs    — снимок самых протухших pending jobs
//
// /healthz и /metrics монтируются в cmd/raider напрямую.
package api
