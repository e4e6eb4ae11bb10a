// Package cli реализует команды raider-cli поверх HTTP API daemon'а.
//
// Структура:
//   - client.go  — HTTP клиент API
//   - output.go  — форматирование (таблица / JSON)
//   - status.go, workers.go, jobs.go — команды
package cli
