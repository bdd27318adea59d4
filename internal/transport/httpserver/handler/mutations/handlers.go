package mutations

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	mutationdomain "village-admin-go/internal/domain/mutation"
	commonhandler "village-admin-go/internal/transport/httpserver/handler/common"
	"village-admin-go/pkg/logger"
)

const (
	bodyLimit  = 1 << 20
	dateLayout = "2006-01-02"
)

type WriteRecorder interface {
	RecordWrite(entity, operation string)
}

type Handlers struct {
	Mutations *mutationdomain.Service
	writes    WriteRecorder
	log       logger.Logger
	debug     bool
}

func New(mutations *mutationdomain.Service, writes WriteRecorder, log logger.Logger, debug bool) *Handlers {
	return &Handlers{Mutations: mutations, writes: writes, log: log, debug: debug}
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	records, err := h.Mutations.List(r.Context(), kind)
	if err != nil {
		h.respondError(w, "mutations.list: failed", err, "kind", kind)
		return
	}

	items := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		items = append(items, toResponse(kind, record))
	}
	commonhandler.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": len(items)})
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	id := pathID(r)
	record, err := h.Mutations.Get(r.Context(), kind, id)
	if err != nil {
		h.respondError(w, "mutations.get: failed", err, "kind", kind, "id", id)
		return
	}
	commonhandler.WriteJSON(w, http.StatusOK, toResponse(kind, *record))
}

func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	fields, err := commonhandler.ParseFields(w, r, bodyLimit, allowedFields(kind)...)
	if err != nil {
		commonhandler.WriteFieldsError(w, err)
		return
	}
	defer fields.Close()

	record, err := h.Mutations.Create(r.Context(), kind, mutationdomain.CreateInput{
		Name:         fields.String("name"),
		NIK:          fields.String("nik"),
		EventDate:    fields.String("event_date"),
		Address:      fields.StringPtr(kind.AddressField()),
		FamilyCardID: fields.StringPtr("family_card_id"),
	})
	if err != nil {
		h.respondError(w, "mutations.create: failed", err, "kind", kind, "nik", fields.String("nik"))
		return
	}

	h.recordWrite(kind, "create")
	commonhandler.WriteJSON(w, http.StatusCreated, toResponse(kind, h.withCard(r, kind, record)))
}

func (h *Handlers) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	fields, err := commonhandler.ParseFields(w, r, bodyLimit, allowedFields(kind)...)
	if err != nil {
		commonhandler.WriteFieldsError(w, err)
		return
	}
	defer fields.Close()

	id := pathID(r)
	record, err := h.Mutations.Update(r.Context(), kind, id, mutationdomain.Patch{
		Name:         fields.Text("name"),
		NIK:          fields.Text("nik"),
		EventDate:    fields.Text("event_date"),
		Address:      fields.Text(kind.AddressField()),
		FamilyCardID: fields.Text("family_card_id"),
	})
	if err != nil {
		h.respondError(w, "mutations.update: failed", err, "kind", kind, "id", id)
		return
	}

	h.recordWrite(kind, "update")
	commonhandler.WriteJSON(w, http.StatusOK, toResponse(kind, h.withCard(r, kind, record)))
}

func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	id := pathID(r)
	if err := h.Mutations.Delete(r.Context(), kind, id); err != nil {
		h.respondError(w, "mutations.delete: failed", err, "kind", kind, "id", id)
		return
	}

	h.recordWrite(kind, "delete")
	commonhandler.WriteJSON(w, http.StatusOK, map[string]string{"message": "Data mutasi berhasil dihapus"})
}

// withCard reloads a written record so the response carries the card summary.
func (h *Handlers) withCard(r *http.Request, kind mutationdomain.Kind, record *mutationdomain.Record) mutationdomain.Record {
	if record.FamilyCardID == nil {
		return *record
	}
	loaded, err := h.Mutations.Get(r.Context(), kind, record.ID)
	if err != nil {
		h.log.Warn("mutations: reload failed", "kind", kind, "id", record.ID, "err", err)
		return *record
	}
	return *loaded
}

func (h *Handlers) kind(w http.ResponseWriter, r *http.Request) (mutationdomain.Kind, bool) {
	kind, err := mutationdomain.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.respondError(w, "mutations: unknown kind", err, "kind", chi.URLParam(r, "kind"))
		return "", false
	}
	return kind, true
}

func (h *Handlers) recordWrite(kind mutationdomain.Kind, operation string) {
	if h.writes != nil {
		h.writes.RecordWrite(string(kind), operation)
	}
}

// respondError maps domain errors. A missing family card is a client error
// here since the card is only referenced by the record.
func (h *Handlers) respondError(w http.ResponseWriter, op string, err error, args ...any) {
	status, code, message := http.StatusBadRequest, "validation_error", ""
	switch {
	case errors.Is(err, mutationdomain.ErrUnknownKind):
		status, code, message = http.StatusNotFound, "unknown_mutation_kind", "Jenis mutasi tidak dikenal"
	case errors.Is(err, mutationdomain.ErrRecordNotFound):
		status, code, message = http.StatusNotFound, "mutation_not_found", "Data mutasi tidak ditemukan"
	case errors.Is(err, mutationdomain.ErrFamilyCardNotFound):
		code, message = "family_card_not_found", "KK tidak ditemukan"
	case errors.Is(err, mutationdomain.ErrNIKTaken):
		code, message = "nik_taken", "NIK sudah terdaftar"
	case errors.Is(err, mutationdomain.ErrNameRequired):
		message = "Nama wajib diisi"
	case errors.Is(err, mutationdomain.ErrNIKRequired):
		message = "NIK wajib diisi"
	case errors.Is(err, mutationdomain.ErrEventDateRequired):
		message = "Tanggal wajib diisi"
	case errors.Is(err, mutationdomain.ErrInvalidDate):
		message = "Format tanggal tidak valid"
	case errors.Is(err, mutationdomain.ErrAddressRequired):
		message = "Alamat wajib diisi"
	default:
		h.log.InternalError(op, err, args...)
		commonhandler.WriteInternalError(w, h.debug, err)
		return
	}

	h.log.BusinessError(op, err, args...)
	commonhandler.WriteError(w, status, code, message)
}

func allowedFields(kind mutationdomain.Kind) []string {
	return []string{"name", "nik", "event_date", kind.AddressField(), "family_card_id"}
}

func pathID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// toResponse renders a record with its kind specific address key.
func toResponse(kind mutationdomain.Kind, record mutationdomain.Record) map[string]interface{} {
	response := map[string]interface{}{
		"id":                record.ID,
		"kind":              string(kind),
		"name":              record.Name,
		"nik":               record.NIK,
		"event_date":        record.EventDate.UTC().Format(dateLayout),
		kind.AddressField(): record.Address,
		"family_card_id":    record.FamilyCardID,
		"family_card":       nil,
		"created_at":        record.CreatedAt.Format(time.RFC3339),
		"updated_at":        record.UpdatedAt.Format(time.RFC3339),
	}
	if card := record.FamilyCard; card != nil {
		summary := map[string]interface{}{
			"id":             card.ID,
			"no_kk":          card.NoKK,
			"household_head": nil,
		}
		if card.HouseholdHead != nil {
			summary["household_head"] = map[string]string{
				"id":   card.HouseholdHead.ID,
				"name": card.HouseholdHead.Name,
			}
		}
		response["family_card"] = summary
	}
	return response
}
