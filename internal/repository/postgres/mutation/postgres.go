package mutation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"village-admin-go/internal/db"
	mutationdomain "village-admin-go/internal/domain/mutation"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(mutationdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Create(ctx context.Context, kind mutationdomain.Kind, record *mutationdomain.Record) error {
	if err := r.db.WithContext(ctx).Table(kind.Table()).Create(record).Error; err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return mutationdomain.ErrNIKTaken
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, kind mutationdomain.Kind, id string) (*mutationdomain.Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, mutationdomain.ErrRecordNotFound
	}

	var rows []recordRow
	if err := r.withCard(ctx, kind).
		Where("m.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, mutationdomain.ErrRecordNotFound
	}

	record := rows[0].toRecord()
	return &record, nil
}

func (r *PostgresRepository) List(ctx context.Context, kind mutationdomain.Kind) ([]mutationdomain.Record, error) {
	var rows []recordRow
	if err := r.withCard(ctx, kind).
		Order("m.created_at desc, m.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]mutationdomain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (r *PostgresRepository) Update(ctx context.Context, kind mutationdomain.Kind, record *mutationdomain.Record) error {
	result := r.db.WithContext(ctx).
		Table(kind.Table()).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"name":           record.Name,
			"nik":            record.NIK,
			"event_date":     record.EventDate,
			"address":        record.Address,
			"family_card_id": record.FamilyCardID,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		if _, ok := db.UniqueViolation(result.Error); ok {
			return mutationdomain.ErrNIKTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mutationdomain.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, kind mutationdomain.Kind, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).Table(kind.Table()).Where("id = ?", id).Delete(&mutationdomain.Record{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) IsNIKTaken(ctx context.Context, kind mutationdomain.Kind, nik, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Table(kind.Table()).Where("nik = ?", nik)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) FamilyCardExists(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Table("family_cards").Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// withCard selects the records joined with their card and the card's head.
func (r *PostgresRepository) withCard(ctx context.Context, kind mutationdomain.Kind) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(kind.Table() + " AS m").
		Select("m.id, m.name, m.nik, m.event_date, m.address, m.family_card_id, m.created_at, m.updated_at, " +
			"fc.no_kk AS card_no_kk, hh.id AS head_id, hh.name AS head_name").
		Joins("LEFT JOIN family_cards fc ON fc.id = m.family_card_id").
		Joins("LEFT JOIN household_heads hh ON hh.id = fc.household_head_id")
}

type recordRow struct {
	ID           string    `gorm:"column:id"`
	Name         string    `gorm:"column:name"`
	NIK          string    `gorm:"column:nik"`
	EventDate    time.Time `gorm:"column:event_date"`
	Address      *string   `gorm:"column:address"`
	FamilyCardID *string   `gorm:"column:family_card_id"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
	CardNoKK     *string   `gorm:"column:card_no_kk"`
	HeadID       *string   `gorm:"column:head_id"`
	HeadName     *string   `gorm:"column:head_name"`
}

func (row recordRow) toRecord() mutationdomain.Record {
	record := mutationdomain.Record{
		ID:           row.ID,
		Name:         row.Name,
		NIK:          row.NIK,
		EventDate:    row.EventDate,
		Address:      row.Address,
		FamilyCardID: row.FamilyCardID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.FamilyCardID != nil && row.CardNoKK != nil {
		record.FamilyCard = &mutationdomain.CardSummary{ID: *row.FamilyCardID, NoKK: *row.CardNoKK}
		if row.HeadID != nil {
			name := ""
			if row.HeadName != nil {
				name = *row.HeadName
			}
			record.FamilyCard.HouseholdHead = &mutationdomain.HeadSummary{ID: *row.HeadID, Name: name}
		}
	}
	return record
}
