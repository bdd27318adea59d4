package resident

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"village-admin-go/pkg/optional"
)

type Service struct {
	repo Repository
	docs DocumentStore
}

func NewService(repo Repository, docs DocumentStore) *Service {
	if docs == nil {
		docs = noopDocumentStore{}
	}
	return &Service{repo: repo, docs: docs}
}

func (s *Service) CreateFamilyCard(ctx context.Context, input FamilyCardInput) (*FamilyCard, error) {
	noKK := strings.TrimSpace(input.NoKK)
	if noKK == "" {
		return nil, ErrNoKKRequired
	}

	taken, err := s.repo.IsNoKKTaken(ctx, noKK, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNoKKTaken
	}

	card := FamilyCard{
		ID:         uuid.NewString(),
		NoKK:       noKK,
		Province:   strings.TrimSpace(input.Province),
		Regency:    strings.TrimSpace(input.Regency),
		District:   strings.TrimSpace(input.District),
		Village:    strings.TrimSpace(input.Village),
		Hamlet:     strings.TrimSpace(input.Hamlet),
		RW:         strings.TrimSpace(input.RW),
		RT:         strings.TrimSpace(input.RT),
		PostalCode: strings.TrimSpace(input.PostalCode),
	}
	if err := s.repo.CreateFamilyCard(ctx, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *Service) GetFamilyCard(ctx context.Context, id string) (*FamilyCard, error) {
	return s.repo.GetFamilyCardDetail(ctx, id)
}

func (s *Service) ListFamilyCards(ctx context.Context) ([]FamilyCard, error) {
	return s.repo.ListFamilyCards(ctx)
}

func (s *Service) ListHeadlessFamilyCards(ctx context.Context) ([]FamilyCard, error) {
	return s.repo.ListHeadlessFamilyCards(ctx)
}

func (s *Service) UpdateFamilyCard(ctx context.Context, id string, patch FamilyCardPatch) (*FamilyCard, error) {
	var result FamilyCard
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		card, err := tx.LockFamilyCard(ctx, id)
		if err != nil {
			return err
		}

		if patch.NoKK.IsSet() {
			noKK, _ := patch.NoKK.Get()
			noKK = strings.TrimSpace(noKK)
			if noKK == "" {
				return ErrNoKKRequired
			}
			if noKK != card.NoKK {
				taken, err := tx.IsNoKKTaken(ctx, noKK, card.ID)
				if err != nil {
					return err
				}
				if taken {
					return ErrNoKKTaken
				}
				card.NoKK = noKK
			}
		}

		applyText(&card.Province, patch.Province)
		applyText(&card.Regency, patch.Regency)
		applyText(&card.District, patch.District)
		applyText(&card.Village, patch.Village)
		applyText(&card.Hamlet, patch.Hamlet)
		applyText(&card.RW, patch.RW)
		applyText(&card.RT, patch.RT)
		applyText(&card.PostalCode, patch.PostalCode)

		if err := tx.UpdateFamilyCard(ctx, card); err != nil {
			return err
		}
		result = *card
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteFamilyCard only removes cards without a head and without members.
func (s *Service) DeleteFamilyCard(ctx context.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		card, err := tx.LockFamilyCard(ctx, id)
		if err != nil {
			return err
		}
		if card.HouseholdHeadID != nil {
			return ErrFamilyCardInUse
		}

		count, err := tx.CountFamilyCardResidents(ctx, card.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrFamilyCardInUse
		}

		deleted, err := tx.DeleteFamilyCard(ctx, card.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrFamilyCardNotFound
		}
		return nil
	})
}

// CreateHouseholdHead inserts the head and points the card at it in one transaction.
// Uploaded documents are removed again when the head cannot be created.
func (s *Service) CreateHouseholdHead(ctx context.Context, input CreateHouseholdHeadInput) (*HouseholdHead, error) {
	head, err := s.createHouseholdHead(ctx, input)
	if err != nil {
		s.discard(ctx, input.Documents.Paths())
		return nil, err
	}
	return head, nil
}

func (s *Service) createHouseholdHead(ctx context.Context, input CreateHouseholdHeadInput) (*HouseholdHead, error) {
	person, err := newPerson(input.Person)
	if err != nil {
		return nil, err
	}
	cardID := strings.TrimSpace(input.FamilyCardID)
	if cardID == "" {
		return nil, ErrFamilyCardRequired
	}
	person.Documents = input.Documents

	var result HouseholdHead
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.IsHeadNIKTaken(ctx, person.NIK, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrNIKTaken
		}

		card, err := tx.LockFamilyCard(ctx, cardID)
		if err != nil {
			return err
		}
		if card.HouseholdHeadID != nil {
			return ErrFamilyCardHasHead
		}

		head := HouseholdHead{
			ID:           uuid.NewString(),
			Person:       person,
			FamilyCardID: card.ID,
		}
		if err := tx.CreateHouseholdHead(ctx, &head); err != nil {
			return err
		}
		if err := tx.SetFamilyCardHead(ctx, card.ID, &head.ID); err != nil {
			return err
		}

		result = head
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) GetHouseholdHead(ctx context.Context, id string) (*HouseholdHead, error) {
	return s.repo.GetHouseholdHead(ctx, id)
}

func (s *Service) ListHouseholdHeads(ctx context.Context) ([]HouseholdHead, error) {
	return s.repo.ListHouseholdHeads(ctx)
}

// UpdateHouseholdHead applies the patch. Replaced documents are removed only after
// the new paths are committed; newly uploaded ones are removed if the update fails.
func (s *Service) UpdateHouseholdHead(ctx context.Context, id string, input UpdateHouseholdHeadInput) (*HouseholdHead, error) {
	if input.isEmpty() {
		return s.repo.GetHouseholdHead(ctx, id)
	}

	var (
		result     HouseholdHead
		superseded []string
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		head, err := tx.GetHouseholdHead(ctx, id)
		if err != nil {
			return err
		}

		nik, changed, err := patchedNIK(head.NIK, input.Person.NIK)
		if err != nil {
			return err
		}
		if changed {
			taken, err := tx.IsHeadNIKTaken(ctx, nik, head.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrNIKTaken
			}
		}

		if err := applyPersonPatch(&head.Person, input.Person); err != nil {
			return err
		}
		replaced := head.Documents.replace(input.Documents)

		if err := tx.UpdateHouseholdHead(ctx, head); err != nil {
			return err
		}
		superseded = replaced
		result = *head
		return nil
	})
	if err != nil {
		s.discard(ctx, input.Documents.Paths())
		return nil, err
	}

	s.discard(ctx, superseded)
	return &result, nil
}

// DeleteHouseholdHead removes the head and clears every card still pointing at it.
func (s *Service) DeleteHouseholdHead(ctx context.Context, id string) error {
	var documents []string
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		head, err := tx.GetHouseholdHead(ctx, id)
		if err != nil {
			return err
		}

		if _, err := tx.ClearHeadReferences(ctx, head.ID); err != nil {
			return err
		}

		deleted, err := tx.DeleteHouseholdHead(ctx, head.ID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrHouseholdHeadNotFound
		}

		documents = head.Documents.Paths()
		return nil
	})
	if err != nil {
		return err
	}

	s.discard(ctx, documents)
	return nil
}

func (s *Service) CreateFamilyMember(ctx context.Context, input CreateFamilyMemberInput) (*FamilyMember, error) {
	member, err := s.createFamilyMember(ctx, input)
	if err != nil {
		s.discard(ctx, input.Documents.Paths())
		return nil, err
	}
	return member, nil
}

func (s *Service) createFamilyMember(ctx context.Context, input CreateFamilyMemberInput) (*FamilyMember, error) {
	person, err := newPerson(input.Person)
	if err != nil {
		return nil, err
	}
	cardID := strings.TrimSpace(input.FamilyCardID)
	if cardID == "" {
		return nil, ErrFamilyCardRequired
	}
	person.Documents = input.Documents

	var result FamilyMember
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.IsMemberNIKTaken(ctx, person.NIK, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrNIKTaken
		}

		card, err := tx.GetFamilyCard(ctx, cardID)
		if err != nil {
			return err
		}

		member := FamilyMember{
			ID:           uuid.NewString(),
			Person:       person,
			Relationship: trimmedOrNil(input.Relationship),
			FamilyCardID: card.ID,
		}
		if err := tx.CreateFamilyMember(ctx, &member); err != nil {
			return err
		}

		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) GetFamilyMember(ctx context.Context, id string) (*FamilyMember, error) {
	return s.repo.GetFamilyMember(ctx, id)
}

func (s *Service) UpdateFamilyMember(ctx context.Context, id string, input UpdateFamilyMemberInput) (*FamilyMember, error) {
	if input.isEmpty() {
		return s.repo.GetFamilyMember(ctx, id)
	}

	var (
		result     FamilyMember
		superseded []string
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetFamilyMember(ctx, id)
		if err != nil {
			return err
		}

		nik, changed, err := patchedNIK(member.NIK, input.Person.NIK)
		if err != nil {
			return err
		}
		if changed {
			taken, err := tx.IsMemberNIKTaken(ctx, nik, member.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrNIKTaken
			}
		}

		if input.FamilyCardID.IsSet() {
			cardID, _ := input.FamilyCardID.Get()
			cardID = strings.TrimSpace(cardID)
			if cardID == "" {
				return ErrFamilyCardRequired
			}
			if cardID != member.FamilyCardID {
				card, err := tx.GetFamilyCard(ctx, cardID)
				if err != nil {
					return err
				}
				member.FamilyCardID = card.ID
				member.FamilyCard = nil
			}
		}

		if err := applyPersonPatch(&member.Person, input.Person); err != nil {
			return err
		}
		applyOptionalText(&member.Relationship, input.Relationship)
		replaced := member.Documents.replace(input.Documents)

		if err := tx.UpdateFamilyMember(ctx, member); err != nil {
			return err
		}
		superseded = replaced
		result = *member
		return nil
	})
	if err != nil {
		s.discard(ctx, input.Documents.Paths())
		return nil, err
	}

	s.discard(ctx, superseded)
	return &result, nil
}

func (s *Service) DeleteFamilyMember(ctx context.Context, id string) error {
	member, err := s.repo.GetFamilyMember(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.DeleteFamilyMember(ctx, member.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrFamilyMemberNotFound
	}

	s.discard(ctx, member.Documents.Paths())
	return nil
}

// ListResidents merges heads and members, one entry per NIK, ordered by name.
func (s *Service) ListResidents(ctx context.Context) ([]Resident, error) {
	rows, err := s.repo.ListResidents(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	result := make([]Resident, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.NIK]; ok {
			continue
		}
		seen[row.NIK] = struct{}{}
		result = append(result, row)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (s *Service) discard(ctx context.Context, paths []string) {
	for _, path := range paths {
		s.docs.Remove(ctx, path)
	}
}

func newPerson(input PersonInput) (Person, error) {
	nik := strings.TrimSpace(input.NIK)
	if nik == "" {
		return Person{}, ErrNIKRequired
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Person{}, ErrNameRequired
	}

	return Person{
		NIK:                nik,
		Name:               name,
		BirthCertificateNo: trimmedOrNil(input.BirthCertificateNo),
		Gender:             trimmedOrNil(input.Gender),
		BirthPlace:         trimmedOrNil(input.BirthPlace),
		BirthDate:          input.BirthDate,
		BloodType:          trimmedOrNil(input.BloodType),
		Religion:           trimmedOrNil(input.Religion),
		MaritalStatus:      trimmedOrNil(input.MaritalStatus),
		Education:          trimmedOrNil(input.Education),
		Occupation:         trimmedOrNil(input.Occupation),
		FatherName:         trimmedOrNil(input.FatherName),
		MotherName:         trimmedOrNil(input.MotherName),
	}, nil
}

func patchedNIK(current string, value optional.Value[string]) (string, bool, error) {
	if !value.IsSet() {
		return current, false, nil
	}
	nik, _ := value.Get()
	nik = strings.TrimSpace(nik)
	if nik == "" {
		return "", false, ErrNIKRequired
	}
	return nik, nik != current, nil
}

func applyPersonPatch(person *Person, patch PersonPatch) error {
	if patch.NIK.IsSet() {
		nik, _ := patch.NIK.Get()
		if nik = strings.TrimSpace(nik); nik == "" {
			return ErrNIKRequired
		}
		person.NIK = nik
	}
	if patch.Name.IsSet() {
		name, _ := patch.Name.Get()
		if name = strings.TrimSpace(name); name == "" {
			return ErrNameRequired
		}
		person.Name = name
	}

	applyOptionalText(&person.BirthCertificateNo, patch.BirthCertificateNo)
	applyOptionalText(&person.Gender, patch.Gender)
	applyOptionalText(&person.BirthPlace, patch.BirthPlace)
	patch.BirthDate.Apply(&person.BirthDate)
	applyOptionalText(&person.BloodType, patch.BloodType)
	applyOptionalText(&person.Religion, patch.Religion)
	applyOptionalText(&person.MaritalStatus, patch.MaritalStatus)
	applyOptionalText(&person.Education, patch.Education)
	applyOptionalText(&person.Occupation, patch.Occupation)
	applyOptionalText(&person.FatherName, patch.FatherName)
	applyOptionalText(&person.MotherName, patch.MotherName)
	return nil
}

// applyOptionalText stores trimmed text; an empty string clears the field like null.
func applyOptionalText(dst **string, value optional.Value[string]) {
	if !value.IsSet() {
		return
	}
	text, ok := value.Get()
	if !ok {
		*dst = nil
		return
	}
	*dst = trimmedOrNil(&text)
}

func applyText(dst *string, value optional.Value[string]) {
	if !value.IsSet() {
		return
	}
	text, _ := value.Get()
	*dst = strings.TrimSpace(text)
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
