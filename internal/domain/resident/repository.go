package resident

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateFamilyCard(ctx context.Context, card *FamilyCard) error
	GetFamilyCard(ctx context.Context, id string) (*FamilyCard, error)
	LockFamilyCard(ctx context.Context, id string) (*FamilyCard, error)
	GetFamilyCardDetail(ctx context.Context, id string) (*FamilyCard, error)
	ListFamilyCards(ctx context.Context) ([]FamilyCard, error)
	ListHeadlessFamilyCards(ctx context.Context) ([]FamilyCard, error)
	IsNoKKTaken(ctx context.Context, noKK, excludeID string) (bool, error)
	UpdateFamilyCard(ctx context.Context, card *FamilyCard) error
	SetFamilyCardHead(ctx context.Context, cardID string, headID *string) error
	ClearHeadReferences(ctx context.Context, headID string) (int64, error)
	CountFamilyCardResidents(ctx context.Context, cardID string) (int64, error)
	DeleteFamilyCard(ctx context.Context, id string) (bool, error)

	CreateHouseholdHead(ctx context.Context, head *HouseholdHead) error
	GetHouseholdHead(ctx context.Context, id string) (*HouseholdHead, error)
	ListHouseholdHeads(ctx context.Context) ([]HouseholdHead, error)
	UpdateHouseholdHead(ctx context.Context, head *HouseholdHead) error
	DeleteHouseholdHead(ctx context.Context, id string) (bool, error)
	IsHeadNIKTaken(ctx context.Context, nik, excludeID string) (bool, error)

	CreateFamilyMember(ctx context.Context, member *FamilyMember) error
	GetFamilyMember(ctx context.Context, id string) (*FamilyMember, error)
	UpdateFamilyMember(ctx context.Context, member *FamilyMember) error
	DeleteFamilyMember(ctx context.Context, id string) (bool, error)
	IsMemberNIKTaken(ctx context.Context, nik, excludeID string) (bool, error)

	ListResidents(ctx context.Context) ([]Resident, error)
}

// DocumentStore removes files that no committed row references anymore.
// Removal is best effort: implementations log failures instead of returning them.
type DocumentStore interface {
	Remove(ctx context.Context, path string)
}

type noopDocumentStore struct{}

func (noopDocumentStore) Remove(context.Context, string) {}
