package reports

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-care-manager/internal/domain/expenses"
	"pet-care-manager/internal/domain/pets"
	"pet-care-manager/internal/platform/httpx"
)

// RegisterRoutes monta /relatorios. Solo para Tutores.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/relatorios", func(rr chi.Router) {
		rr.Get("/saude/{petID}", healthReportHandler(svc))
		rr.Get("/financeiro", financialReportHandler(svc))
	})
}

type periodResponse struct {
	Start *string `json:"inicio"`
	End   *string `json:"fim"`
}

type reportRecordResponse struct {
	ID           int64     `json:"id"`
	PetID        int64     `json:"petId"`
	Type         string    `json:"tipo"`
	Date         string    `json:"data"`
	Time         string    `json:"horario"`
	Professional string    `json:"profissional"`
	FilePath     *string   `json:"arquivoPath"`
	CreatedAt    time.Time `json:"createdAt"`
}

type healthSummaryResponse struct {
	Total  int            `json:"totalRegistros"`
	ByType map[string]int `json:"porTipo"`
}

type healthReportResponse struct {
	Pet         pets.PetResponse       `json:"pet"`
	Period      periodResponse         `json:"periodo"`
	Records     []reportRecordResponse `json:"registros"`
	Summary     healthSummaryResponse  `json:"resumo"`
	GeneratedAt time.Time              `json:"geradoEm"`
}

type financialSummaryResponse struct {
	Total      json.Number            `json:"totalGeral" swaggertype:"number"`
	ByCategory map[string]json.Number `json:"porCategoria" swaggertype:"object,number"`
}

type financialReportResponse struct {
	Period      periodResponse             `json:"periodo"`
	Expenses    []expenses.ExpenseResponse `json:"despesas"`
	Summary     financialSummaryResponse   `json:"resumo"`
	GeneratedAt time.Time                  `json:"geradoEm"`
}

// healthReportHandler godoc
// @Summary Relatório de salud de una mascota
// @Description Solo Tutores dueños de la mascota. Registros del período ordenados del más reciente al más viejo.
// @Tags relatorios
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Param dataInicio query string false "YYYY-MM-DD inclusive"
// @Param dataFim query string false "YYYY-MM-DD inclusive"
// @Success 200 {object} healthReportResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /relatorios/saude/{petID} [get]
func healthReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		petID, err := httpx.IDParam(r, "petID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		rep, err := svc.Health(r.Context(), claims, petID, periodFromQuery(r))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toHealthReportResponse(rep))
	}
}

// financialReportHandler godoc
// @Summary Relatório financiero
// @Description Despesas del Tutor en el período, con total general y total por categoría.
// @Tags relatorios
// @Produce json
// @Param petId query int false "Restringe a una mascota"
// @Param dataInicio query string false "YYYY-MM-DD inclusive"
// @Param dataFim query string false "YYYY-MM-DD inclusive"
// @Success 200 {object} financialReportResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /relatorios/financeiro [get]
func financialReportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		petID, err := httpx.QueryID(r, "petId")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		rep, err := svc.Financial(r.Context(), claims, petID, periodFromQuery(r))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toFinancialReportResponse(rep))
	}
}

func periodFromQuery(r *http.Request) Period {
	q := r.URL.Query()
	return Period{From: q.Get("dataInicio"), To: q.Get("dataFim")}
}

func toPeriodResponse(p Period) periodResponse {
	var out periodResponse
	if p.From != "" {
		from := p.From
		out.Start = &from
	}
	if p.To != "" {
		to := p.To
		out.End = &to
	}
	return out
}

func toHealthReportResponse(rep HealthReport) healthReportResponse {
	recs := make([]reportRecordResponse, 0, len(rep.Records))
	for _, r := range rep.Records {
		recs = append(recs, reportRecordResponse{
			ID:           r.ID,
			PetID:        r.PetID,
			Type:         string(r.Type),
			Date:         r.Date,
			Time:         r.Time,
			Professional: r.Professional,
			FilePath:     r.FilePath,
			CreatedAt:    r.CreatedAt,
		})
	}
	byType := make(map[string]int, len(rep.ByType))
	for t, n := range rep.ByType {
		byType[string(t)] = n
	}
	return healthReportResponse{
		Pet:         pets.ToPetResponse(rep.Pet),
		Period:      toPeriodResponse(rep.Period),
		Records:     recs,
		Summary:     healthSummaryResponse{Total: len(recs), ByType: byType},
		GeneratedAt: rep.GeneratedAt,
	}
}

func toFinancialReportResponse(rep FinancialReport) financialReportResponse {
	items := make([]expenses.ExpenseResponse, 0, len(rep.Expenses))
	for _, e := range rep.Expenses {
		items = append(items, expenses.ToExpenseResponse(e))
	}
	sum := expenses.ToSummaryResponse(rep.Summary)
	return financialReportResponse{
		Period:   toPeriodResponse(rep.Period),
		Expenses: items,
		Summary: financialSummaryResponse{
			Total:      sum.Total,
			ByCategory: sum.ByCategory,
		},
		GeneratedAt: rep.GeneratedAt,
	}
}
