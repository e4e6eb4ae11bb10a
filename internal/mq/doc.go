// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация событий
//   - consumer.go   — потребление сообщений
//
// Типы сообщений:
//   - visit.completed — успешный визит (producer: raider)
//   - fort.discovered — новый fort найден внешним сканером
//     (consumer: raider, добавляет job в очередь)
//
// Exchanges:
//   - raider.visits — события визитов
//   - raider.forts  — события о fort'ах
//
// RabbitMQ опционален: без него daemon работает в standalone режиме
// (события не публикуются, новые forts приходят только через resync).
package mq
