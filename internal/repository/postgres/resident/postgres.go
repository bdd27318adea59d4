package resident

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"village-admin-go/internal/db"
	residentdomain "village-admin-go/internal/domain/resident"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(residentdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateFamilyCard(ctx context.Context, card *residentdomain.FamilyCard) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(card).Error; err != nil {
		return uniqueError(err, residentdomain.ErrNoKKTaken)
	}
	return nil
}

func (r *PostgresRepository) GetFamilyCard(ctx context.Context, id string) (*residentdomain.FamilyCard, error) {
	return r.findFamilyCard(r.db.WithContext(ctx), id)
}

// LockFamilyCard reads the card with SELECT ... FOR UPDATE; call it inside Transaction.
func (r *PostgresRepository) LockFamilyCard(ctx context.Context, id string) (*residentdomain.FamilyCard, error) {
	return r.findFamilyCard(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *PostgresRepository) GetFamilyCardDetail(ctx context.Context, id string) (*residentdomain.FamilyCard, error) {
	return r.findFamilyCard(withHousehold(r.db.WithContext(ctx)), id)
}

func (r *PostgresRepository) findFamilyCard(query *gorm.DB, id string) (*residentdomain.FamilyCard, error) {
	if !validID(id) {
		return nil, residentdomain.ErrFamilyCardNotFound
	}

	var card residentdomain.FamilyCard
	if err := query.Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, residentdomain.ErrFamilyCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *PostgresRepository) ListFamilyCards(ctx context.Context) ([]residentdomain.FamilyCard, error) {
	var cards []residentdomain.FamilyCard
	if err := withHousehold(r.db.WithContext(ctx)).
		Order("created_at desc").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *PostgresRepository) ListHeadlessFamilyCards(ctx context.Context) ([]residentdomain.FamilyCard, error) {
	var cards []residentdomain.FamilyCard
	if err := r.db.WithContext(ctx).
		Where("household_head_id IS NULL").
		Order("created_at desc").
		Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *PostgresRepository) IsNoKKTaken(ctx context.Context, noKK, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&residentdomain.FamilyCard{}).Where("no_kk = ?", noKK)
	return exists(excludeOwn(query, excludeID))
}

func (r *PostgresRepository) UpdateFamilyCard(ctx context.Context, card *residentdomain.FamilyCard) error {
	result := r.db.WithContext(ctx).
		Model(&residentdomain.FamilyCard{}).
		Where("id = ?", card.ID).
		Updates(map[string]interface{}{
			"no_kk":       card.NoKK,
			"province":    card.Province,
			"regency":     card.Regency,
			"district":    card.District,
			"village":     card.Village,
			"hamlet":      card.Hamlet,
			"rw":          card.RW,
			"rt":          card.RT,
			"postal_code": card.PostalCode,
		})
	if result.Error != nil {
		return uniqueError(result.Error, residentdomain.ErrNoKKTaken)
	}
	if result.RowsAffected == 0 {
		return residentdomain.ErrFamilyCardNotFound
	}
	return nil
}

func (r *PostgresRepository) SetFamilyCardHead(ctx context.Context, cardID string, headID *string) error {
	result := r.db.WithContext(ctx).
		Model(&residentdomain.FamilyCard{}).
		Where("id = ?", cardID).
		Update("household_head_id", headID)
	if result.Error != nil {
		return uniqueError(result.Error, residentdomain.ErrFamilyCardHasHead)
	}
	if result.RowsAffected == 0 {
		return residentdomain.ErrFamilyCardNotFound
	}
	return nil
}

func (r *PostgresRepository) ClearHeadReferences(ctx context.Context, headID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&residentdomain.FamilyCard{}).
		Where("household_head_id = ?", headID).
		Update("household_head_id", nil)
	if result.Error != nil {
		return 0, fmt.Errorf("clear head references: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *PostgresRepository) CountFamilyCardResidents(ctx context.Context, cardID string) (int64, error) {
	var heads, members int64
	if err := r.db.WithContext(ctx).Model(&residentdomain.HouseholdHead{}).Where("family_card_id = ?", cardID).Count(&heads).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).Model(&residentdomain.FamilyMember{}).Where("family_card_id = ?", cardID).Count(&members).Error; err != nil {
		return 0, err
	}
	return heads + members, nil
}

func (r *PostgresRepository) DeleteFamilyCard(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&residentdomain.FamilyCard{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) CreateHouseholdHead(ctx context.Context, head *residentdomain.HouseholdHead) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(head).Error; err != nil {
		return uniqueError(err, residentdomain.ErrNIKTaken)
	}
	return nil
}

func (r *PostgresRepository) GetHouseholdHead(ctx context.Context, id string) (*residentdomain.HouseholdHead, error) {
	if !validID(id) {
		return nil, residentdomain.ErrHouseholdHeadNotFound
	}

	var head residentdomain.HouseholdHead
	if err := r.db.WithContext(ctx).Preload("FamilyCard").Where("id = ?", id).First(&head).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, residentdomain.ErrHouseholdHeadNotFound
		}
		return nil, err
	}
	return &head, nil
}

func (r *PostgresRepository) ListHouseholdHeads(ctx context.Context) ([]residentdomain.HouseholdHead, error) {
	var heads []residentdomain.HouseholdHead
	if err := r.db.WithContext(ctx).
		Preload("FamilyCard").
		Order("created_at desc").
		Find(&heads).Error; err != nil {
		return nil, err
	}
	return heads, nil
}

func (r *PostgresRepository) UpdateHouseholdHead(ctx context.Context, head *residentdomain.HouseholdHead) error {
	result := r.db.WithContext(ctx).
		Model(&residentdomain.HouseholdHead{}).
		Where("id = ?", head.ID).
		Updates(personColumns(head.Person))
	if result.Error != nil {
		return uniqueError(result.Error, residentdomain.ErrNIKTaken)
	}
	if result.RowsAffected == 0 {
		return residentdomain.ErrHouseholdHeadNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteHouseholdHead(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&residentdomain.HouseholdHead{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) IsHeadNIKTaken(ctx context.Context, nik, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&residentdomain.HouseholdHead{}).Where("nik = ?", nik)
	return exists(excludeOwn(query, excludeID))
}

func (r *PostgresRepository) CreateFamilyMember(ctx context.Context, member *residentdomain.FamilyMember) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(member).Error; err != nil {
		return uniqueError(err, residentdomain.ErrNIKTaken)
	}
	return nil
}

func (r *PostgresRepository) GetFamilyMember(ctx context.Context, id string) (*residentdomain.FamilyMember, error) {
	if !validID(id) {
		return nil, residentdomain.ErrFamilyMemberNotFound
	}

	var member residentdomain.FamilyMember
	if err := r.db.WithContext(ctx).Preload("FamilyCard").Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, residentdomain.ErrFamilyMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) UpdateFamilyMember(ctx context.Context, member *residentdomain.FamilyMember) error {
	columns := personColumns(member.Person)
	columns["relationship"] = member.Relationship
	columns["family_card_id"] = member.FamilyCardID

	result := r.db.WithContext(ctx).
		Model(&residentdomain.FamilyMember{}).
		Where("id = ?", member.ID).
		Updates(columns)
	if result.Error != nil {
		return uniqueError(result.Error, residentdomain.ErrNIKTaken)
	}
	if result.RowsAffected == 0 {
		return residentdomain.ErrFamilyMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteFamilyMember(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&residentdomain.FamilyMember{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) IsMemberNIKTaken(ctx context.Context, nik, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&residentdomain.FamilyMember{}).Where("nik = ?", nik)
	return exists(excludeOwn(query, excludeID))
}

func (r *PostgresRepository) ListResidents(ctx context.Context) ([]residentdomain.Resident, error) {
	var residents []residentdomain.Resident
	if err := r.db.WithContext(ctx).
		Raw("SELECT nik, name FROM household_heads UNION ALL SELECT nik, name FROM family_members").
		Scan(&residents).Error; err != nil {
		return nil, err
	}
	return residents, nil
}

func withHousehold(query *gorm.DB) *gorm.DB {
	return query.
		Preload("HouseholdHead").
		Preload("Members", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc")
		})
}

func personColumns(person residentdomain.Person) map[string]interface{} {
	return map[string]interface{}{
		"nik":                  person.NIK,
		"name":                 person.Name,
		"birth_certificate_no": person.BirthCertificateNo,
		"gender":               person.Gender,
		"birth_place":          person.BirthPlace,
		"birth_date":           person.BirthDate,
		"blood_type":           person.BloodType,
		"religion":             person.Religion,
		"marital_status":       person.MaritalStatus,
		"education":            person.Education,
		"occupation":           person.Occupation,
		"father_name":          person.FatherName,
		"mother_name":          person.MotherName,
		"scan_ktp":             person.ScanKTP,
		"scan_kk":              person.ScanKK,
		"scan_akta_lahir":      person.ScanBirthCert,
		"scan_buku_nikah":      person.ScanMarriageBook,
	}
}

func excludeOwn(query *gorm.DB, excludeID string) *gorm.DB {
	if excludeID == "" {
		return query
	}
	return query.Where("id <> ?", excludeID)
}

func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// uniqueError maps a unique violation to the domain error of the violated
// column; fallback is used when the driver does not name the constraint.
func uniqueError(err error, fallback error) error {
	constraint, ok := db.UniqueViolation(err)
	if !ok {
		return err
	}

	switch {
	case strings.Contains(constraint, "family_card_id"), strings.Contains(constraint, "household_head_id"):
		return residentdomain.ErrFamilyCardHasHead
	case strings.Contains(constraint, "no_kk"):
		return residentdomain.ErrNoKKTaken
	case strings.Contains(constraint, "nik"):
		return residentdomain.ErrNIKTaken
	default:
		return fallback
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
