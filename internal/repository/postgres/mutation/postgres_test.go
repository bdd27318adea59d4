package mutation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	mutationdomain "village-admin-go/internal/domain/mutation"
	"village-admin-go/internal/repository/testdb"
	"village-admin-go/pkg/optional"
)

func seedHousehold(t *testing.T, gormDB *gorm.DB) (cardID, headID string) {
	t.Helper()
	cardID, headID = uuid.NewString(), uuid.NewString()
	require.NoError(t, gormDB.Exec("INSERT INTO family_cards (id, no_kk) VALUES (?, ?)", cardID, "1234567890123456").Error)
	require.NoError(t, gormDB.Exec("INSERT INTO household_heads (id, nik, name, family_card_id) VALUES (?, ?, ?, ?)", headID, "3201011", "Budi", cardID).Error)
	require.NoError(t, gormDB.Exec("UPDATE family_cards SET household_head_id = ? WHERE id = ?", headID, cardID).Error)
	return cardID, headID
}

func strPtr(value string) *string {
	return &value
}

func TestDuplicateNIKRejectedWithinKindOnly(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(testdb.New(t))
	svc := mutationdomain.NewService(repo)

	_, err := svc.Create(ctx, mutationdomain.KindBirthEntry, mutationdomain.CreateInput{Name: "Bayi", NIK: "9999", EventDate: "2024-01-01"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, mutationdomain.KindBirthEntry, mutationdomain.CreateInput{Name: "Bayi", NIK: "9999", EventDate: "2024-01-01"})
	require.ErrorIs(t, err, mutationdomain.ErrNIKTaken)

	// The store rejects the duplicate even when the pre-check is bypassed.
	err = repo.Create(ctx, mutationdomain.KindBirthEntry, &mutationdomain.Record{
		ID: uuid.NewString(), Name: "Bayi", NIK: "9999", EventDate: time.Now(),
	})
	require.ErrorIs(t, err, mutationdomain.ErrNIKTaken)

	_, err = svc.Create(ctx, mutationdomain.KindDeath, mutationdomain.CreateInput{Name: "Bayi", NIK: "9999", EventDate: "2024-02-01", Address: strPtr("RSUD")})
	require.NoError(t, err)

	births, err := svc.List(ctx, mutationdomain.KindBirthEntry)
	require.NoError(t, err)
	assert.Len(t, births, 1)
}

func TestListIncludesCardAndHead(t *testing.T) {
	ctx := context.Background()
	gormDB := testdb.New(t)
	cardID, headID := seedHousehold(t, gormDB)
	svc := mutationdomain.NewService(NewPostgres(gormDB))

	linked, err := svc.Create(ctx, mutationdomain.KindMoveOut, mutationdomain.CreateInput{
		Name: "Ani", NIK: "1", EventDate: "2024-03-01", Address: strPtr("Bandung"), FamilyCardID: strPtr(cardID),
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, mutationdomain.KindMoveOut, mutationdomain.CreateInput{
		Name: "Budi", NIK: "2", EventDate: "2024-03-02", Address: strPtr("Bogor"),
	})
	require.NoError(t, err)

	records, err := svc.List(ctx, mutationdomain.KindMoveOut)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var found *mutationdomain.Record
	for i := range records {
		if records[i].ID == linked.ID {
			found = &records[i]
		}
	}
	require.NotNil(t, found)
	require.NotNil(t, found.FamilyCard)
	assert.Equal(t, "1234567890123456", found.FamilyCard.NoKK)
	require.NotNil(t, found.FamilyCard.HouseholdHead)
	assert.Equal(t, headID, found.FamilyCard.HouseholdHead.ID)
	assert.Equal(t, "Budi", found.FamilyCard.HouseholdHead.Name)
	assert.Equal(t, "Bandung", *found.Address)
}

func TestUpdateClearsCardLinkOnNull(t *testing.T) {
	ctx := context.Background()
	gormDB := testdb.New(t)
	cardID, _ := seedHousehold(t, gormDB)
	svc := mutationdomain.NewService(NewPostgres(gormDB))

	record, err := svc.Create(ctx, mutationdomain.KindBirthEntry, mutationdomain.CreateInput{
		Name: "Bayi", NIK: "1", EventDate: "2024-01-01", FamilyCardID: strPtr(cardID),
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, mutationdomain.KindBirthEntry, record.ID, mutationdomain.Patch{Name: optional.Of("Bayi Sehat")})
	require.NoError(t, err)
	got, err := svc.Get(ctx, mutationdomain.KindBirthEntry, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bayi Sehat", got.Name)
	require.NotNil(t, got.FamilyCardID)

	_, err = svc.Update(ctx, mutationdomain.KindBirthEntry, record.ID, mutationdomain.Patch{FamilyCardID: optional.Null[string]()})
	require.NoError(t, err)
	got, err = svc.Get(ctx, mutationdomain.KindBirthEntry, record.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FamilyCardID)
	assert.Nil(t, got.FamilyCard)

	_, err = svc.Update(ctx, mutationdomain.KindBirthEntry, record.ID, mutationdomain.Patch{FamilyCardID: optional.Of("not-a-card")})
	require.ErrorIs(t, err, mutationdomain.ErrFamilyCardNotFound)
}

func TestDeleteRecord(t *testing.T) {
	ctx := context.Background()
	svc := mutationdomain.NewService(NewPostgres(testdb.New(t)))

	record, err := svc.Create(ctx, mutationdomain.KindDeath, mutationdomain.CreateInput{
		Name: "Pak Tua", NIK: "1", EventDate: "2024-01-01", Address: strPtr("Rumah"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, mutationdomain.KindDeath, record.ID))
	require.ErrorIs(t, svc.Delete(ctx, mutationdomain.KindDeath, record.ID), mutationdomain.ErrRecordNotFound)
	_, err = svc.Get(ctx, mutationdomain.KindDeath, "garbage")
	require.ErrorIs(t, err, mutationdomain.ErrRecordNotFound)
}
