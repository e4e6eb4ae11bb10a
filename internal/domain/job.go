package domain

import (
	"github.com/shaiso/Raider/internal/geo"
)

// Job — одна точка интереса (fort), которую нужно периодически посещать.
//
// Job создаётся один раз при preload (или при получении события
// fort.discovered) и никогда не уничтожается: после каждой попытки
// визита он возвращается в очередь. Инвариант: в любой момент job
// находится либо в очереди, либо внутри ровно одной попытки.
type Job struct {
	// ID — идентификатор fort в БД.
	ID int64 `json:"id"`

	// ExternalID — внешний идентификатор, используемый протоколом визита.
	ExternalID string `json:"external_id"`

	// Lat, Lon — координаты точки интереса.
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Name — отображаемое имя.
	Name string `json:"name"`

	// URL — ссылка на изображение/страницу точки.
	URL string `json:"url"`

	// LastModified — отметка свежести из источника (unix seconds, 0 если нет).
	LastModified int64 `json:"last_modified"`

	// Updated — время последнего успешного визита (unix seconds, 0 если нет).
	Updated int64 `json:"updated"`
}

// Point возвращает координаты job.
func (j *Job) Point() geo.Point {
	return geo.Point{Lat: j.Lat, Lon: j.Lon}
}

// Priority возвращает ключ приоритета для очереди: Updated, если визит
// уже был, иначе LastModified. Меньшее значение — более "протухший" job.
func (j *Job) Priority() int64 {
	if j.Updated != 0 {
		return j.Updated
	}
	return j.LastModified
}
