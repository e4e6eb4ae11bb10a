// Package preload наполняет очередь jobs точками интереса.
//
// Три пути пополнения, все через один дедупликатор:
//   - стартовый Preload из Postgres (forts внутри границы);
//   - периодический resync по cron-расписанию;
//   - события fort.discovered от внешних сканеров.
//
// Каждый fort попадает в очередь не более одного раза — после этого job
// циркулирует между очередью и попытками визита самостоятельно.
package preload
