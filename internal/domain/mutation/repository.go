package mutation

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	Create(ctx context.Context, kind Kind, record *Record) error
	Get(ctx context.Context, kind Kind, id string) (*Record, error)
	List(ctx context.Context, kind Kind) ([]Record, error)
	Update(ctx context.Context, kind Kind, record *Record) error
	Delete(ctx context.Context, kind Kind, id string) (bool, error)
	IsNIKTaken(ctx context.Context, kind Kind, nik, excludeID string) (bool, error)

	FamilyCardExists(ctx context.Context, id string) (bool, error)
}
