// Package dispatch реализует управляющий цикл ревизитации.
//
// Dispatcher — "мозг" системы: бесконечно вычерпывает приоритетную
// очередь jobs, берёт слот глобального лимитера конкурентности и
// запускает независимую попытку визита, не дожидаясь её завершения.
//
// # Поток данных
//
//	Job Queue → Dispatch Loop → (слот лимитера) → Visit Attempt
//	  → Worker Selector → Worker → внешний Visitor → Job Queue (requeue)
//
// # Гарантии
//
//   - Job никогда не теряется: каждая попытка заканчивается ровно одним
//     возвратом job'а в очередь (включая панику, отсутствие worker'а и
//     отмену во время ожидания слота).
//   - Счётчик занятых слотов лимитера не превышает числа workers и
//     возвращается к нулю, когда все in-flight попытки завершены.
//   - Цикл завершается только по отмене ctx; любая ошибка одной попытки
//     гасится на её границе (логирование + счётчик skipped).
//
// Терминального состояния нет: это намеренное планирование с
// бесконечным горизонтом, очередь работает как вечный round-robin
// по протуханию.
package dispatch
