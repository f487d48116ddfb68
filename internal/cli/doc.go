// Package cli реализует команды accountctl: регистрацию, вход, выход,
// просмотр и редактирование аккаунтов через gRPC API, а также просмотр
// потока событий аккаунтов из RabbitMQ.
package cli
