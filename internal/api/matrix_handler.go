package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/openfloor/rollcall/internal/matrix"
)

// MatrixHandler serves the persisted votes matrix
type MatrixHandler struct {
	store matrix.Store
}

// NewMatrixHandler creates a new matrix handler
func NewMatrixHandler(store matrix.Store) *MatrixHandler {
	return &MatrixHandler{store: store}
}

func (h *MatrixHandler) snapshot(w http.ResponseWriter, r *http.Request) (*matrix.Matrix, bool) {
	m, err := h.store.Snapshot(r.Context())
	if err != nil {
		slog.Error("Failed to load matrix snapshot", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load matrix")
		return nil, false
	}
	return m, true
}

// LegislatorRow is one matrix row with its populated cells
type LegislatorRow struct {
	matrix.Legislator
	Positions map[string]matrix.Position `json:"positions"`
}

// MatrixResponse is the full matrix: column ids plus one row per
// legislator. Absent cells are simply missing from Positions.
type MatrixResponse struct {
	Bills       []string        `json:"bills"`
	Legislators []LegislatorRow `json:"legislators"`
}

// Matrix handles GET /api/matrix
func (h *MatrixHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	m, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	response := MatrixResponse{Bills: m.Bills}
	if response.Bills == nil {
		response.Bills = []string{}
	}
	response.Legislators = make([]LegislatorRow, 0, len(m.Legislators))
	for _, leg := range m.Legislators {
		response.Legislators = append(response.Legislators, LegislatorRow{
			Legislator: leg,
			Positions:  m.Cells[leg.ID],
		})
	}

	respondJSON(w, http.StatusOK, response)
}

// Export handles GET /api/matrix/export (CSV download)
func (h *MatrixHandler) Export(w http.ResponseWriter, r *http.Request) {
	m, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="votes_matrix.csv"`)
	if err := matrix.WriteCSV(w, m); err != nil {
		slog.Error("Failed to write matrix export", "error", err)
	}
}

// Bills handles GET /api/bills
func (h *MatrixHandler) Bills(w http.ResponseWriter, r *http.Request) {
	m, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	bills := m.Bills
	if bills == nil {
		bills = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"bills": bills})
}

// BillTally handles GET /api/bills/{id}/tally
func (h *MatrixHandler) BillTally(w http.ResponseWriter, r *http.Request) {
	bill, err := matrix.ParseBillID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	if !m.HasBill(bill.String()) {
		respondError(w, http.StatusNotFound, "bill not found: "+bill.String())
		return
	}

	respondJSON(w, http.StatusOK, m.Tally(bill.String()))
}

// Legislators handles GET /api/legislators
func (h *MatrixHandler) Legislators(w http.ResponseWriter, r *http.Request) {
	m, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	legislators := m.Legislators
	if legislators == nil {
		legislators = []matrix.Legislator{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"legislators": legislators})
}

// GetLegislator handles GET /api/legislators/{id}
func (h *MatrixHandler) GetLegislator(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	leg, found := m.Legislator(id)
	if !found {
		respondError(w, http.StatusNotFound, "legislator not found: "+id)
		return
	}

	respondJSON(w, http.StatusOK, LegislatorRow{
		Legislator: leg,
		Positions:  m.Cells[id],
	})
}

// Stats handles GET /api/stats
func (h *MatrixHandler) Stats(w http.ResponseWriter, r *http.Request) {
	m, ok := h.snapshot(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, m.Stats())
}

// ScoresRequest carries per-bill weight rules, in the same shape as the
// CLI weights file.
type ScoresRequest struct {
	Weights       map[string]map[string]decimal.Decimal `json:"weights"`
	DefaultWeight decimal.Decimal                       `json:"defaultWeight"`
}

// Scores handles POST /api/scores
func (h *MatrixHandler) Scores(w http.ResponseWriter, r *http.Request) {
	var req ScoresRequest
	if err := parseJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	weights := make(matrix.Weights, len(req.Weights))
	for billID, rule := range req.Weights {
		bill, err := matrix.ParseBillID(billID)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		parsed := make(matrix.WeightRule, len(rule))
		for pos, weight := range rule {
			p := matrix.Position(pos)
			if !p.Valid() {
				respondError(w, http.StatusBadRequest, "unrecognized position: "+pos)
				return
			}
			parsed[p] = weight
		}
		weights[bill.String()] = parsed
	}

	m, ok := h.snapshot(w, r)
	if !ok {
		return
	}

	scores := matrix.ComputeScores(m, weights, req.DefaultWeight)
	respondJSON(w, http.StatusOK, map[string]interface{}{"scores": scores})
}
