package expenses

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pet-care-manager/internal/platform/httpx"
	"pet-care-manager/internal/platform/patch"
)

// RegisterRoutes monta /despesas. Todo el módulo es solo para Tutores.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/despesas", func(dr chi.Router) {
		dr.Get("/", listExpensesHandler(svc))
		dr.Post("/", createExpenseHandler(svc))
		dr.Get("/summary", summaryHandler(svc))

		dr.Get("/{despesaID}", getExpenseHandler(svc))
		dr.Patch("/{despesaID}", updateExpenseHandler(svc))
		dr.Put("/{despesaID}", updateExpenseHandler(svc))
		dr.Delete("/{despesaID}", deleteExpenseHandler(svc))
	})
}

type createExpenseRequest struct {
	PetID       int64            `json:"petId"`
	Category    string           `json:"categoria" enums:"Alimentação,Saúde,Higiene,Acessórios,Hospedagem,Transporte,Outros"`
	Description string           `json:"descricao"`
	Amount      *decimal.Decimal `json:"valor" swaggertype:"number"`
	Date        string           `json:"data"` // YYYY-MM-DD
	Notes       *string          `json:"observacoes"`
}

type updateExpenseRequest struct {
	Category    patch.Field[string]          `json:"categoria" swaggertype:"string"`
	Description patch.Field[string]          `json:"descricao" swaggertype:"string"`
	Amount      patch.Field[decimal.Decimal] `json:"valor" swaggertype:"number"`
	Date        patch.Field[string]          `json:"data" swaggertype:"string"`
	Notes       patch.Field[string]          `json:"observacoes" swaggertype:"string"`
}

type ExpenseResponse struct {
	ID          int64       `json:"id"`
	PetID       int64       `json:"petId"`
	Category    Category    `json:"categoria"`
	Description string      `json:"descricao"`
	Amount      json.Number `json:"valor" swaggertype:"number"`
	Date        string      `json:"data"`
	Notes       *string     `json:"observacoes"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type SummaryResponse struct {
	Total      json.Number            `json:"total" swaggertype:"number"`
	ByCategory map[string]json.Number `json:"porCategoria" swaggertype:"object,number"`
}

// Money serializa un decimal como número JSON con 2 decimales.
func Money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func ToSummaryResponse(s Summary) SummaryResponse {
	out := SummaryResponse{
		Total:      Money(s.Total),
		ByCategory: make(map[string]json.Number, len(s.ByCategory)),
	}
	for c, v := range s.ByCategory {
		out.ByCategory[string(c)] = Money(v)
	}
	return out
}

func filterFromQuery(r *http.Request) (ListFilter, error) {
	petID, err := httpx.QueryID(r, "petId")
	if err != nil {
		return ListFilter{}, err
	}
	q := r.URL.Query()
	return ListFilter{
		PetID:    petID,
		Category: Category(q.Get("categoria")),
		From:     q.Get("dataInicio"),
		To:       q.Get("dataFim"),
	}, nil
}

// createExpenseHandler godoc
// @Summary Registrar despesa
// @Description Solo Tutores, sobre sus propias mascotas. valor se redondea a 2 decimales.
// @Tags despesas
// @Accept json
// @Produce json
// @Param payload body createExpenseRequest true "Datos de la despesa"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /despesas [post]
func createExpenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createExpenseRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		e, err := svc.Create(r.Context(), claims, CreateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, ToExpenseResponse(e))
	}
}

// listExpensesHandler godoc
// @Summary Listar despesas
// @Description Despesas de todas las mascotas del Tutor, ordenadas por data e id descendentes.
// @Tags despesas
// @Produce json
// @Param petId query int false "Filtrar por mascota"
// @Param categoria query string false "Filtrar por categoría"
// @Param dataInicio query string false "YYYY-MM-DD inclusive"
// @Param dataFim query string false "YYYY-MM-DD inclusive"
// @Success 200 {array} ExpenseResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /despesas [get]
func listExpensesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		filter, err := filterFromQuery(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		items, err := svc.List(r.Context(), claims, filter)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]ExpenseResponse, 0, len(items))
		for _, e := range items {
			out = append(out, ToExpenseResponse(e))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// summaryHandler godoc
// @Summary Totales de despesas por categoría
// @Tags despesas
// @Produce json
// @Param petId query int false "Filtrar por mascota"
// @Param categoria query string false "Filtrar por categoría"
// @Param dataInicio query string false "YYYY-MM-DD inclusive"
// @Param dataFim query string false "YYYY-MM-DD inclusive"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /despesas/summary [get]
func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		filter, err := filterFromQuery(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		s, err := svc.Summary(r.Context(), claims, filter)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToSummaryResponse(s))
	}
}

// getExpenseHandler godoc
// @Summary Ver despesa
// @Tags despesas
// @Produce json
// @Param despesaID path int true "ID de la despesa"
// @Success 200 {object} ExpenseResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /despesas/{despesaID} [get]
func getExpenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "despesaID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		e, err := svc.Get(r.Context(), claims, id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToExpenseResponse(e))
	}
}

// updateExpenseHandler godoc
// @Summary Actualizar despesa (parcial)
// @Description petId no se puede cambiar. PUT se comporta igual que PATCH.
// @Tags despesas
// @Accept json
// @Produce json
// @Param despesaID path int true "ID de la despesa"
// @Param payload body updateExpenseRequest true "Campos a modificar"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /despesas/{despesaID} [patch]
func updateExpenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "despesaID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req updateExpenseRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		e, err := svc.Update(r.Context(), claims, id, UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToExpenseResponse(e))
	}
}

// deleteExpenseHandler godoc
// @Summary Borrar despesa
// @Tags despesas
// @Param despesaID path int true "ID de la despesa"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /despesas/{despesaID} [delete]
func deleteExpenseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "despesaID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		if err := svc.Delete(r.Context(), claims, id); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ToExpenseResponse se exporta para reutilizarlo en el relatório financiero.
func ToExpenseResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		PetID:       e.PetID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      Money(e.Amount),
		Date:        e.Date,
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt,
	}
}
