package residents

import (
	"net/http"

	residentdomain "village-admin-go/internal/domain/resident"
	"village-admin-go/pkg/optional"
)

type createFamilyCardRequest struct {
	NoKK       string `json:"no_kk"`
	Province   string `json:"province"`
	Regency    string `json:"regency"`
	District   string `json:"district"`
	Village    string `json:"village"`
	Hamlet     string `json:"hamlet"`
	RW         string `json:"rw"`
	RT         string `json:"rt"`
	PostalCode string `json:"postal_code"`
}

type updateFamilyCardRequest struct {
	NoKK       optional.Value[string] `json:"no_kk"`
	Province   optional.Value[string] `json:"province"`
	Regency    optional.Value[string] `json:"regency"`
	District   optional.Value[string] `json:"district"`
	Village    optional.Value[string] `json:"village"`
	Hamlet     optional.Value[string] `json:"hamlet"`
	RW         optional.Value[string] `json:"rw"`
	RT         optional.Value[string] `json:"rt"`
	PostalCode optional.Value[string] `json:"postal_code"`
}

func (h *Handlers) ListFamilyCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Residents.ListFamilyCards(r.Context())
	if err != nil {
		h.respondError(w, "family_cards.list: failed", err, http.StatusNotFound)
		return
	}

	response := make([]familyCardResponse, 0, len(cards))
	for _, card := range cards {
		response = append(response, toFamilyCardResponse(card, true))
	}
	writeJSON(w, http.StatusOK, newListResponse(response))
}

func (h *Handlers) ListHeadlessFamilyCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Residents.ListHeadlessFamilyCards(r.Context())
	if err != nil {
		h.respondError(w, "family_cards.list_headless: failed", err, http.StatusNotFound)
		return
	}

	response := make([]familyCardResponse, 0, len(cards))
	for _, card := range cards {
		response = append(response, toFamilyCardResponse(card, false))
	}
	writeJSON(w, http.StatusOK, newListResponse(response))
}

func (h *Handlers) GetFamilyCard(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	card, err := h.Residents.GetFamilyCard(r.Context(), id)
	if err != nil {
		h.respondError(w, "family_cards.get: failed", err, http.StatusNotFound, "family_card_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toFamilyCardResponse(*card, true))
}

func (h *Handlers) CreateFamilyCard(w http.ResponseWriter, r *http.Request) {
	var req createFamilyCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	card, err := h.Residents.CreateFamilyCard(r.Context(), residentdomain.FamilyCardInput{
		NoKK:       req.NoKK,
		Province:   req.Province,
		Regency:    req.Regency,
		District:   req.District,
		Village:    req.Village,
		Hamlet:     req.Hamlet,
		RW:         req.RW,
		RT:         req.RT,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		h.respondError(w, "family_cards.create: failed", err, http.StatusNotFound, "no_kk", req.NoKK)
		return
	}

	h.recordWrite("family_card", "create")
	writeJSON(w, http.StatusCreated, toFamilyCardResponse(*card, false))
}

func (h *Handlers) UpdateFamilyCard(w http.ResponseWriter, r *http.Request) {
	var req updateFamilyCardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	id := pathID(r)
	card, err := h.Residents.UpdateFamilyCard(r.Context(), id, residentdomain.FamilyCardPatch{
		NoKK:       req.NoKK,
		Province:   req.Province,
		Regency:    req.Regency,
		District:   req.District,
		Village:    req.Village,
		Hamlet:     req.Hamlet,
		RW:         req.RW,
		RT:         req.RT,
		PostalCode: req.PostalCode,
	})
	if err != nil {
		h.respondError(w, "family_cards.update: failed", err, http.StatusNotFound, "family_card_id", id)
		return
	}

	h.recordWrite("family_card", "update")
	writeJSON(w, http.StatusOK, toFamilyCardResponse(*card, false))
}

func (h *Handlers) DeleteFamilyCard(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if err := h.Residents.DeleteFamilyCard(r.Context(), id); err != nil {
		h.respondError(w, "family_cards.delete: failed", err, http.StatusNotFound, "family_card_id", id)
		return
	}

	h.recordWrite("family_card", "delete")
	writeJSON(w, http.StatusOK, map[string]string{"message": "KK berhasil dihapus"})
}
