package mutation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"village-admin-go/pkg/optional"
)

type fakeMutationRepo struct {
	records map[Kind]map[string]Record
	cards   map[string]bool
}

func newFakeMutationRepo(cardIDs ...string) *fakeMutationRepo {
	repo := &fakeMutationRepo{
		records: make(map[Kind]map[string]Record),
		cards:   make(map[string]bool),
	}
	for _, kind := range Kinds() {
		repo.records[kind] = make(map[string]Record)
	}
	for _, id := range cardIDs {
		repo.cards[id] = true
	}
	return repo
}

func (r *fakeMutationRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeMutationRepo) Create(ctx context.Context, kind Kind, record *Record) error {
	r.records[kind][record.ID] = *record
	return nil
}

func (r *fakeMutationRepo) Get(ctx context.Context, kind Kind, id string) (*Record, error) {
	record, ok := r.records[kind][id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &record, nil
}

func (r *fakeMutationRepo) List(ctx context.Context, kind Kind) ([]Record, error) {
	result := make([]Record, 0, len(r.records[kind]))
	for _, record := range r.records[kind] {
		result = append(result, record)
	}
	return result, nil
}

func (r *fakeMutationRepo) Update(ctx context.Context, kind Kind, record *Record) error {
	if _, ok := r.records[kind][record.ID]; !ok {
		return ErrRecordNotFound
	}
	r.records[kind][record.ID] = *record
	return nil
}

func (r *fakeMutationRepo) Delete(ctx context.Context, kind Kind, id string) (bool, error) {
	if _, ok := r.records[kind][id]; !ok {
		return false, nil
	}
	delete(r.records[kind], id)
	return true, nil
}

func (r *fakeMutationRepo) IsNIKTaken(ctx context.Context, kind Kind, nik, excludeID string) (bool, error) {
	for _, record := range r.records[kind] {
		if record.NIK == nik && record.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMutationRepo) FamilyCardExists(ctx context.Context, id string) (bool, error) {
	return r.cards[id], nil
}

func strPtr(value string) *string {
	return &value
}

func TestCreateBirthEntryDuplicateNIKWithinKind(t *testing.T) {
	repo := newFakeMutationRepo()
	svc := NewService(repo)

	first, err := svc.Create(context.Background(), KindBirthEntry, CreateInput{
		Name: "Bayi", NIK: "9999", EventDate: "2024-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.EventDate)
	assert.Nil(t, first.Address)
	assert.Nil(t, first.FamilyCardID)

	_, err = svc.Create(context.Background(), KindBirthEntry, CreateInput{
		Name: "Bayi Lain", NIK: "9999", EventDate: "2024-01-02",
	})
	require.ErrorIs(t, err, ErrNIKTaken)
	assert.Len(t, repo.records[KindBirthEntry], 1)
}

func TestSameNIKAllowedAcrossKinds(t *testing.T) {
	svc := NewService(newFakeMutationRepo())

	_, err := svc.Create(context.Background(), KindBirthEntry, CreateInput{
		Name: "Ani", NIK: "9999", EventDate: "1990-03-04",
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), KindMoveOut, CreateInput{
		Name: "Ani", NIK: "9999", EventDate: "2020-03-04", Address: strPtr("Bandung"),
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), KindDeath, CreateInput{
		Name: "Ani", NIK: "9999", EventDate: "2040-03-04", Address: strPtr("RSUD"),
	})
	require.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeMutationRepo())

	tests := []struct {
		name  string
		kind  Kind
		input CreateInput
		want  error
	}{
		{"missing name", KindBirthEntry, CreateInput{NIK: "1", EventDate: "2024-01-01"}, ErrNameRequired},
		{"missing nik", KindBirthEntry, CreateInput{Name: "A", EventDate: "2024-01-01"}, ErrNIKRequired},
		{"missing date", KindBirthEntry, CreateInput{Name: "A", NIK: "1"}, ErrEventDateRequired},
		{"bad date", KindBirthEntry, CreateInput{Name: "A", NIK: "1", EventDate: "01/02/2024"}, ErrInvalidDate},
		{"death needs address", KindDeath, CreateInput{Name: "A", NIK: "1", EventDate: "2024-01-01"}, ErrAddressRequired},
		{"move-out needs destination", KindMoveOut, CreateInput{Name: "A", NIK: "1", EventDate: "2024-01-01", Address: strPtr(" ")}, ErrAddressRequired},
		{"unknown card", KindBirthEntry, CreateInput{Name: "A", NIK: "1", EventDate: "2024-01-01", FamilyCardID: strPtr("missing")}, ErrFamilyCardNotFound},
		{"unknown kind", Kind("marriage"), CreateInput{Name: "A", NIK: "1", EventDate: "2024-01-01"}, ErrUnknownKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.kind, tt.input)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreateAcceptsTimestampDate(t *testing.T) {
	svc := NewService(newFakeMutationRepo("card-1"))

	record, err := svc.Create(context.Background(), KindDeath, CreateInput{
		Name: "Pak Tua", NIK: "1", EventDate: "2024-06-30T22:15:00Z", Address: strPtr(" Rumah "), FamilyCardID: strPtr("card-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), record.EventDate)
	assert.Equal(t, "Rumah", *record.Address)
	assert.Equal(t, "card-1", *record.FamilyCardID)
}

func TestUpdateCardLinkAbsentKeepsAndNullClears(t *testing.T) {
	repo := newFakeMutationRepo("card-1")
	svc := NewService(repo)
	record, err := svc.Create(context.Background(), KindBirthEntry, CreateInput{
		Name: "Bayi", NIK: "1", EventDate: "2024-01-01", FamilyCardID: strPtr("card-1"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), KindBirthEntry, record.ID, Patch{Name: optional.Of("Bayi Baru")})
	require.NoError(t, err)
	assert.Equal(t, "Bayi Baru", updated.Name)
	require.NotNil(t, updated.FamilyCardID)
	assert.Equal(t, "card-1", *updated.FamilyCardID)

	updated, err = svc.Update(context.Background(), KindBirthEntry, record.ID, Patch{FamilyCardID: optional.Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, updated.FamilyCardID)
	assert.Nil(t, repo.records[KindBirthEntry][record.ID].FamilyCardID)
}

func TestUpdateValidatesOnlyChangedFields(t *testing.T) {
	repo := newFakeMutationRepo("card-1")
	svc := NewService(repo)
	record, err := svc.Create(context.Background(), KindMoveOut, CreateInput{
		Name: "A", NIK: "1", EventDate: "2024-01-01", Address: strPtr("Bogor"), FamilyCardID: strPtr("card-1"),
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), KindMoveOut, CreateInput{
		Name: "B", NIK: "2", EventDate: "2024-01-01", Address: strPtr("Depok"),
	})
	require.NoError(t, err)

	// The card vanished after linking; resubmitting the same id is not a change.
	delete(repo.cards, "card-1")
	_, err = svc.Update(context.Background(), KindMoveOut, record.ID, Patch{
		NIK:          optional.Of("1"),
		FamilyCardID: optional.Of("card-1"),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), KindMoveOut, record.ID, Patch{NIK: optional.Of("2")})
	require.ErrorIs(t, err, ErrNIKTaken)

	_, err = svc.Update(context.Background(), KindMoveOut, record.ID, Patch{FamilyCardID: optional.Of("card-2")})
	require.ErrorIs(t, err, ErrFamilyCardNotFound)

	_, err = svc.Update(context.Background(), KindMoveOut, record.ID, Patch{Address: optional.Null[string]()})
	require.ErrorIs(t, err, ErrAddressRequired)

	_, err = svc.Update(context.Background(), KindMoveOut, record.ID, Patch{EventDate: optional.Of("yesterday")})
	require.ErrorIs(t, err, ErrInvalidDate)

	stored := repo.records[KindMoveOut][record.ID]
	assert.Equal(t, "1", stored.NIK)
	assert.Equal(t, "Bogor", *stored.Address)
}

func TestUpdateEmptyPatchReturnsCurrent(t *testing.T) {
	repo := newFakeMutationRepo()
	svc := NewService(repo)
	record, err := svc.Create(context.Background(), KindBirthEntry, CreateInput{Name: "A", NIK: "1", EventDate: "2024-01-01"})
	require.NoError(t, err)
	before := repo.records[KindBirthEntry][record.ID]

	got, err := svc.Update(context.Background(), KindBirthEntry, record.ID, Patch{})
	require.NoError(t, err)
	assert.Equal(t, before, *got)

	_, err = svc.Update(context.Background(), KindBirthEntry, "missing", Patch{})
	require.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDelete(t *testing.T) {
	repo := newFakeMutationRepo()
	svc := NewService(repo)
	record, err := svc.Create(context.Background(), KindDeath, CreateInput{
		Name: "A", NIK: "1", EventDate: "2024-01-01", Address: strPtr("Rumah"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), KindDeath, record.ID))
	assert.Empty(t, repo.records[KindDeath])
	require.ErrorIs(t, svc.Delete(context.Background(), KindDeath, record.ID), ErrRecordNotFound)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("move-out")
	require.NoError(t, err)
	assert.Equal(t, KindMoveOut, kind)
	assert.Equal(t, "move_outs", kind.Table())
	assert.Equal(t, "destination_address", kind.AddressField())

	_, err = ParseKind("birth_entry")
	require.ErrorIs(t, err, ErrUnknownKind)
}
