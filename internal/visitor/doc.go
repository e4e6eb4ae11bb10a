// Package visitor — HTTP-клиент внешнего визит-сервиса.
//
// Протокольные детали (аккаунты, логин, captcha) инкапсулированы в
// отдельном сервисе; raider отправляет координаты и получает числовой
// результат визита.
package visitor
