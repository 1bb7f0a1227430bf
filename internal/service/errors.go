// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — сертификат не найден.
	ErrNotFound = errors.New("сертификат не найден")
	// ErrAlreadyRedeemed — файл сертификата уже был выдан.
	ErrAlreadyRedeemed = errors.New("сертификат уже погашен")
	// ErrFileMissing — право на скачивание выдано, но файла нет в хранилище.
	ErrFileMissing = errors.New("файл сертификата отсутствует в хранилище")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrRecordDeleteAfterFile — файл удалён, а запись удалить не удалось.
	ErrRecordDeleteAfterFile = errors.New("файл удалён, но запись сертификата не удалена")
)
