package cache

import "context"

// Store es la vista de una colección que consumen los casos de uso.
type Store[T any, P any] interface {
	Items() []T
	Loading() bool
	Find(id string) (T, bool)
	Filter(pred func(T) bool) []T
	Refetch(ctx context.Context) error
	Add(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, patch P) (T, bool, error)
	Remove(ctx context.Context, id string) error
}

var _ Store[struct{}, struct{}] = (*Collection[struct{}, struct{}])(nil)
