// Package worker содержит workers и выбор ближайшего свободного.
//
// # Обзор
//
// Worker — один слот конкурентного выполнения визитов с физической
// позицией. Workers создаются один раз при старте (фиксированное
// количество) и живут весь процесс; per-job они не пересоздаются.
//
// # Ключевые компоненты
//
// ## Worker
//
// Хранит позицию, busy guard и диагностические метрики (последняя
// вычисленная скорость, scan delayed). Busy guard — это mutual
// exclusion: захват только через TryAcquire, так что выбрать занятого
// worker'а невозможно.
//
// ## Visitor
//
// Интерфейс внешней способности визита:
//
//	type Visitor interface {
//	    Visit(ctx context.Context, point geo.Point, job *domain.Job) (domain.VisitResult, error)
//	}
//
// Результат: VisitBlocked (transient block), VisitNothing (пусто)
// или > 0 (успех). Ошибка — инфраструктурный сбой коллаборатора.
//
// ## Selector
//
// BestWorker сканирует registry, выбирает свободного worker'а с
// минимальной оценкой стоимости перемещения и возвращает его с уже
// захваченным busy guard. Если свободных нет — ждёт с опросом до
// дедлайна и возвращает nil (sentinel, не ошибка).
//
// Оценка стоимости — прокси скорости (RequiredSpeed), а не физическое
// время пути; используется только для сравнения.
package worker
