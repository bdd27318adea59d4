package residents

import (
	"net/http"

	residentdomain "village-admin-go/internal/domain/resident"
	commonhandler "village-admin-go/internal/transport/httpserver/handler/common"
)

func (h *Handlers) ListHouseholdHeads(w http.ResponseWriter, r *http.Request) {
	heads, err := h.Residents.ListHouseholdHeads(r.Context())
	if err != nil {
		h.respondError(w, "household_heads.list: failed", err, http.StatusNotFound)
		return
	}

	response := make([]householdHeadResponse, 0, len(heads))
	for _, head := range heads {
		response = append(response, toHouseholdHeadResponse(head))
	}
	writeJSON(w, http.StatusOK, newListResponse(response))
}

func (h *Handlers) GetHouseholdHead(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	head, err := h.Residents.GetHouseholdHead(r.Context(), id)
	if err != nil {
		h.respondError(w, "household_heads.get: failed", err, http.StatusNotFound, "household_head_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toHouseholdHeadResponse(*head))
}

func (h *Handlers) CreateHouseholdHead(w http.ResponseWriter, r *http.Request) {
	fields, err := commonhandler.ParseFields(w, r, h.bodyLimit(), allowedFields("family_card_id")...)
	if err != nil {
		commonhandler.WriteFieldsError(w, err)
		return
	}
	defer fields.Close()

	person, err := personInput(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Format tanggal lahir harus YYYY-MM-DD")
		return
	}

	docs, err := h.saveDocuments(r.Context(), fields)
	if err != nil {
		h.respondError(w, "household_heads.create: upload failed", err, http.StatusBadRequest)
		return
	}

	head, err := h.Residents.CreateHouseholdHead(r.Context(), residentdomain.CreateHouseholdHeadInput{
		Person:       person,
		FamilyCardID: fields.String("family_card_id"),
		Documents:    docs,
	})
	if err != nil {
		h.respondError(w, "household_heads.create: failed", err, http.StatusBadRequest, "nik", person.NIK)
		return
	}

	h.recordWrite("household_head", "create")
	writeJSON(w, http.StatusCreated, toHouseholdHeadResponse(*head))
}

func (h *Handlers) UpdateHouseholdHead(w http.ResponseWriter, r *http.Request) {
	fields, err := commonhandler.ParseFields(w, r, h.bodyLimit(), allowedFields()...)
	if err != nil {
		commonhandler.WriteFieldsError(w, err)
		return
	}
	defer fields.Close()

	patch, err := personPatch(fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Format tanggal lahir harus YYYY-MM-DD")
		return
	}

	docs, err := h.saveDocuments(r.Context(), fields)
	if err != nil {
		h.respondError(w, "household_heads.update: upload failed", err, http.StatusBadRequest)
		return
	}

	id := pathID(r)
	head, err := h.Residents.UpdateHouseholdHead(r.Context(), id, residentdomain.UpdateHouseholdHeadInput{
		Person:    patch,
		Documents: docs,
	})
	if err != nil {
		h.respondError(w, "household_heads.update: failed", err, http.StatusBadRequest, "household_head_id", id)
		return
	}

	h.recordWrite("household_head", "update")
	writeJSON(w, http.StatusOK, toHouseholdHeadResponse(*head))
}

func (h *Handlers) DeleteHouseholdHead(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := h.Residents.DeleteHouseholdHead(r.Context(), id); err != nil {
		h.respondError(w, "household_heads.delete: failed", err, http.StatusNotFound, "household_head_id", id)
		return
	}

	h.recordWrite("household_head", "delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "Kepala keluarga berhasil dihapus"})
}
