package mutation

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"village-admin-go/pkg/optional"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates the record in order: required fields, date, address,
// NIK uniqueness within the kind, then the optional card link.
func (s *Service) Create(ctx context.Context, kind Kind, input CreateInput) (*Record, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	nik := strings.TrimSpace(input.NIK)
	if nik == "" {
		return nil, ErrNIKRequired
	}
	eventDate, err := parseEventDate(input.EventDate)
	if err != nil {
		return nil, err
	}
	address := trimmedOrNil(input.Address)
	if address == nil && kind.AddressRequired() {
		return nil, ErrAddressRequired
	}
	cardID := trimmedOrNil(input.FamilyCardID)

	var result Record
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.IsNIKTaken(ctx, kind, nik, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrNIKTaken
		}

		if cardID != nil {
			if err := ensureFamilyCard(ctx, tx, *cardID); err != nil {
				return err
			}
		}

		record := Record{
			ID:           uuid.NewString(),
			Name:         name,
			NIK:          nik,
			EventDate:    eventDate,
			Address:      address,
			FamilyCardID: cardID,
		}
		if err := tx.Create(ctx, kind, &record); err != nil {
			return err
		}
		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Get(ctx context.Context, kind Kind, id string) (*Record, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return s.repo.Get(ctx, kind, id)
}

// List returns the records of one kind, newest first, with the linked card and its head.
func (s *Service) List(ctx context.Context, kind Kind) ([]Record, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return s.repo.List(ctx, kind)
}

// Update re-validates the NIK and the card link only when the patch changes them.
func (s *Service) Update(ctx context.Context, kind Kind, id string, patch Patch) (*Record, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	if patch.isEmpty() {
		return s.repo.Get(ctx, kind, id)
	}

	var result Record
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		record, err := tx.Get(ctx, kind, id)
		if err != nil {
			return err
		}

		if patch.Name.IsSet() {
			name, _ := patch.Name.Get()
			if name = strings.TrimSpace(name); name == "" {
				return ErrNameRequired
			}
			record.Name = name
		}

		if patch.NIK.IsSet() {
			nik, _ := patch.NIK.Get()
			if nik = strings.TrimSpace(nik); nik == "" {
				return ErrNIKRequired
			}
			if nik != record.NIK {
				taken, err := tx.IsNIKTaken(ctx, kind, nik, record.ID)
				if err != nil {
					return err
				}
				if taken {
					return ErrNIKTaken
				}
				record.NIK = nik
			}
		}

		if patch.EventDate.IsSet() {
			value, _ := patch.EventDate.Get()
			eventDate, err := parseEventDate(value)
			if err != nil {
				return err
			}
			record.EventDate = eventDate
		}

		if patch.Address.IsSet() {
			address := optionalText(patch.Address)
			if address == nil && kind.AddressRequired() {
				return ErrAddressRequired
			}
			record.Address = address
		}

		if patch.FamilyCardID.IsSet() {
			cardID := optionalText(patch.FamilyCardID)
			if cardID != nil && (record.FamilyCardID == nil || *record.FamilyCardID != *cardID) {
				if err := ensureFamilyCard(ctx, tx, *cardID); err != nil {
					return err
				}
			}
			record.FamilyCardID = cardID
			record.FamilyCard = nil
		}

		if err := tx.Update(ctx, kind, record); err != nil {
			return err
		}
		result = *record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) Delete(ctx context.Context, kind Kind, id string) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}

	deleted, err := s.repo.Delete(ctx, kind, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRecordNotFound
	}
	return nil
}

func ensureFamilyCard(ctx context.Context, repo Repository, id string) error {
	exists, err := repo.FamilyCardExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFamilyCardNotFound
	}
	return nil
}

// parseEventDate accepts a calendar date or a full RFC 3339 timestamp and keeps the date part.
func parseEventDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEventDateRequired
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	year, month, day := parsed.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

func optionalText(value optional.Value[string]) *string {
	text, ok := value.Get()
	if !ok {
		return nil
	}
	return trimmedOrNil(&text)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
