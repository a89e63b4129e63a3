package roster

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	keeper *Keeper
}

func NewHandler(keeper *Keeper) *Handler {
	return &Handler{keeper: keeper}
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.keeper.Snapshot())
}
