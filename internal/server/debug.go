package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/engine"
	"github.com/Turtwiggy/Dwarf-and-Blade/pkg/api"
)

const debugTimeout = 2 * time.Second

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.BattleService
}

func NewDebugHandler(s *engine.BattleService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/battles", h.handleListBattles)
	mux.HandleFunc("/debug/cell", h.handleCell)
}

// /debug/battles - сводка по всем картам, включая очередь шагов
func (h *DebugHandler) handleListBattles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), debugTimeout)
	defer cancel()

	statuses, err := h.Service.Statuses(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, statuses)
}

// /debug/cell?battle=1&x=3&y=4 - содержимое тайла
func (h *DebugHandler) handleCell(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var vals [3]int
	for i, key := range []string{"battle", "x", "y"} {
		v, err := strconv.Atoi(q.Get(key))
		if err != nil {
			http.Error(w, fmt.Sprintf("query %q: want an integer", key), http.StatusBadRequest)
			return
		}
		vals[i] = v
	}

	instance, ok := h.Service.Instance(vals[0])
	if !ok {
		http.Error(w, "Battle not found", http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), debugTimeout)
	defer cancel()

	payload, _ := json.Marshal(api.PositionPayload{X: vals[1], Y: vals[2]})
	resp, err := instance.Do(ctx, domain.InternalCommand{
		Action:  domain.ActionInspect,
		Session: "debug",
		Payload: payload,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if resp.Type == api.TypeError {
		http.Error(w, resp.Error, http.StatusBadRequest)
		return
	}
	writeJSON(w, resp.Cell)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
