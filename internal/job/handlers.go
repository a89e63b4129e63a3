package job

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alderworks/workshop/internal/clock"
	"github.com/alderworks/workshop/internal/types/job"
)

type Handler struct {
	svc *Manager
	clk clock.Clock
}

func NewHandler(svc *Manager, clk clock.Clock) *Handler {
	return &Handler{svc: svc, clk: clk}
}

type lineResponse struct {
	Product  string `json:"product"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Produced int    `json:"produced"`
}

type orderResponse struct {
	ID               string         `json:"id"`
	Archetype        string         `json:"archetype"`
	SlotIndex        int            `json:"slot_index"`
	Lines            []lineResponse `json:"lines"`
	DeadlineSeconds  float64        `json:"deadline_seconds"`
	RemainingSeconds float64        `json:"remaining_seconds"`
	Accepted         bool           `json:"accepted"`
	ReadyForDelivery bool           `json:"ready_for_delivery"`
	Quality          float64        `json:"quality"`
	EstimatedGold    int            `json:"estimated_gold,omitempty"`
}

type boardResponse struct {
	Offered []orderResponse `json:"offered"`
	Active  []orderResponse `json:"active"`
}

type rewardResponse struct {
	Gold    int     `json:"gold"`
	XP      int     `json:"xp"`
	Quality float64 `json:"quality"`
}

type productionRequest struct {
	Product   string `json:"product"`
	Defective bool   `json:"defective"`
}

func (h *Handler) toResponse(o *job.Order, offered bool) orderResponse {
	resp := orderResponse{
		ID:               o.ID,
		Archetype:        string(o.Archetype),
		SlotIndex:        o.SlotIndex,
		DeadlineSeconds:  o.Deadline.Seconds(),
		RemainingSeconds: o.RemainingAt(h.clk.Now()).Seconds(),
		Accepted:         o.Accepted,
		ReadyForDelivery: o.ReadyForDelivery,
		Quality:          o.QualityScore(),
	}
	for _, line := range o.Lines {
		resp.Lines = append(resp.Lines, lineResponse{
			Product:  line.Product.ID,
			Name:     line.Product.Name,
			Quantity: line.Quantity,
			Produced: line.Produced,
		})
	}
	if offered {
		resp.EstimatedGold = h.svc.EstimatePay(o)
	}
	return resp
}

func (h *Handler) Board(w http.ResponseWriter, r *http.Request) {
	resp := boardResponse{
		Offered: []orderResponse{},
		Active:  []orderResponse{},
	}
	for _, o := range h.svc.Offered() {
		resp.Offered = append(resp.Offered, h.toResponse(&o, true))
	}
	for _, o := range h.svc.Active() {
		resp.Active = append(resp.Active, h.toResponse(&o, false))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.svc.Accept(id) {
		http.Error(w, "order is not available for acceptance", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.svc.Decline(id) {
		http.Error(w, "order is not available for decline", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Deliver(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reward, ok := h.svc.Deliver(r.Context(), id)
	if !ok {
		http.Error(w, "order is not ready for delivery", http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rewardResponse{
		Gold:    reward.Gold,
		XP:      reward.XP,
		Quality: reward.Quality,
	})
}

func (h *Handler) ReportProduction(w http.ResponseWriter, r *http.Request) {
	var req productionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.Product == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	matched := h.svc.ReportProduction(req.Product, req.Defective)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]bool{"matched": matched})
}
