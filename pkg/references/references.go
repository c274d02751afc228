// Package references связывает уже разобранные модели с клиентом API.
//
// Binder — чистая функция (модель, клиент) -> ссылка: он ничего не кэширует,
// не ходит в сеть и возвращает ошибку только при пустой идентичности.
// Сетевые вызовы выполняют методы самих ссылок.
package references

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dukestreet/JRAW/pkg/databind"
)

var (
	// ErrEmptyIdentity — у модели нет идентичности, к которой можно привязаться.
	ErrEmptyIdentity = errors.New("references: empty identity")
	// ErrNilClient — binder вызван без клиента.
	ErrNilClient = errors.New("references: nil client")
	// ErrNotFound — API вернул пустой ответ для существующей ссылки.
	ErrNotFound = errors.New("references: thing not found")
	// ErrNotSelf — операция доступна только для текущего пользователя.
	ErrNotSelf = errors.New("references: operation is available only for the authenticated user")
)

// Client — минимальный транспорт, которого ссылкам достаточно: GET по пути
// API с query-параметрами, ответ — сырое тело JSON.
//
//go:generate mockgen -source=references.go -destination=../../mocks/client.go -package=mocks
type Client interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

func checkBinding(client Client, identity string) error {
	if client == nil {
		return ErrNilClient
	}

	if identity == "" {
		return ErrEmptyIdentity
	}

	return nil
}

// fetch выполняет GET и оборачивает ошибку транспорта операцией op.
func fetch(ctx context.Context, client Client, op, path string, query url.Values) ([]byte, error) {
	body, err := client.Get(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("%s: get %s: %w", op, path, err)
	}

	return body, nil
}

func decodeError(op string, err error) error {
	return fmt.Errorf("%s: decode: %w", op, err)
}

// single возвращает единственный элемент листинга.
func single[T any](l databind.Listing[T]) (T, error) {
	var zero T

	if l.Len() != 1 {
		return zero, ErrNotFound
	}

	return l.At(0), nil
}

func stripKind(id, kind string) string {
	return strings.TrimPrefix(id, kind+"_")
}

// fullNameQuery — query для /api/info.
func fullNameQuery(fullName string) url.Values {
	return url.Values{"id": []string{fullName}}
}
