package domain

// VisitResult — результат одного обращения протокола визита к точке.
//
// Семантика значений:
//   - VisitBlocked — попытка отклонена из-за израсходованного ресурса
//     (transient block); допускает один повтор с меньшим jitter.
//   - VisitNothing — визит механически прошёл, но по координатам ничего
//     не наблюдается.
//   - > 0 — успех (количество увиденных объектов).
type VisitResult int

const (
	// VisitBlocked — sentinel отклонённой попытки.
	VisitBlocked VisitResult = -1

	// VisitNothing — пустой результат.
	VisitNothing VisitResult = 0
)

// Seen возвращает true, если визит что-то увидел.
func (r VisitResult) Seen() bool {
	return r > 0
}

// Outcome — классификация завершённой попытки визита.
//
// Заменяет исключения исходной модели: внутренняя процедура
// visit-and-retry возвращает тегированный вариант, который вызывающий
// код разбирает явно.
type Outcome string

const (
	// OutcomeSuccess — визит удался, метаданные job обновлены.
	OutcomeSuccess Outcome = "SUCCESS"

	// OutcomeNothingSeen — по координатам ничего не наблюдается.
	OutcomeNothingSeen Outcome = "NOTHING_SEEN"

	// OutcomeNotFound — точка не найдена на ожидаемом месте после повтора.
	OutcomeNotFound Outcome = "NOT_FOUND"

	// OutcomeNoWorker — не нашлось свободного worker'а до дедлайна.
	OutcomeNoWorker Outcome = "NO_WORKER"

	// OutcomeError — неожиданная ошибка коллаборатора или кода попытки.
	OutcomeError Outcome = "ERROR"
)

// Skipped возвращает true, если попытка считается пропущенной
// (учитывается в счётчике skipped).
func (o Outcome) Skipped() bool {
	switch o {
	case OutcomeNothingSeen, OutcomeNotFound, OutcomeError:
		return true
	default:
		return false
	}
}
