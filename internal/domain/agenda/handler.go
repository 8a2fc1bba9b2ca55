package agenda

import (
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/httpx"
	"pet-care-manager/internal/platform/patch"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/agenda", func(ar chi.Router) {
		ar.Post("/", createAppointmentHandler(svc))
		ar.Get("/pet/{petID}", listByPetHandler(svc))

		ar.Get("/{agendaID}", getAppointmentHandler(svc))
		ar.Patch("/{agendaID}", updateAppointmentHandler(svc))
		ar.Put("/{agendaID}", updateAppointmentHandler(svc))
		ar.Delete("/{agendaID}", deleteAppointmentHandler(svc))

		ar.Post("/{agendaID}/avaliar", rateAppointmentHandler(svc))
	})
}

type createAppointmentRequest struct {
	PetID        int64   `json:"petId"`
	Procedure    string  `json:"procedimento" enums:"Banho/Tosa,Vacina,Vermifugo,Antipulgas,Consulta,Outros"`
	Date         string  `json:"data"`    // YYYY-MM-DD
	Time         string  `json:"horario"` // HH:MM
	Professional *string `json:"profissional"`
	Notes        *string `json:"observacoes"`
}

type updateAppointmentRequest struct {
	Procedure    patch.Field[string] `json:"procedimento" swaggertype:"string"`
	Date         patch.Field[string] `json:"data" swaggertype:"string"`
	Time         patch.Field[string] `json:"horario" swaggertype:"string"`
	Professional patch.Field[string] `json:"profissional" swaggertype:"string"`
	Notes        patch.Field[string] `json:"observacoes" swaggertype:"string"`
}

type rateRequest struct {
	Score   *float64 `json:"nota"`
	Comment *string  `json:"comentario"`
}

type appointmentResponse struct {
	ID            int64     `json:"id"`
	PetID         int64     `json:"petId"`
	Procedure     Procedure `json:"procedimento"`
	Date          string    `json:"data"`
	Time          string    `json:"horario"`
	Professional  *string   `json:"profissional"`
	Notes         *string   `json:"observacoes"`
	RatingScore   *int      `json:"avaliacaoNota"`
	RatingComment *string   `json:"avaliacaoComentario"`
	CreatedAt     time.Time `json:"createdAt"`
}

// createAppointmentHandler godoc
// @Summary Agendar procedimento
// @Description Solo el dueño de la mascota puede agendar. Errores de validación vienen agrupados por campo.
// @Tags agenda
// @Accept json
// @Produce json
// @Param payload body createAppointmentRequest true "Datos del turno"
// @Success 201 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /agenda [post]
func createAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createAppointmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		a, err := svc.Create(r.Context(), claims, CreateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toAppointmentResponse(a))
	}
}

// listByPetHandler godoc
// @Summary Listar agenda de una mascota
// @Description Ordenado por data, horario e id descendentes.
// @Tags agenda
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Param dataInicio query string false "YYYY-MM-DD inclusive"
// @Param dataFim query string false "YYYY-MM-DD inclusive"
// @Param procedimento query string false "Filtro por procedimiento"
// @Success 200 {array} appointmentResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /agenda/pet/{petID} [get]
func listByPetHandler(svc *Service) http.HandlerFunc {
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

		q := r.URL.Query()
		items, err := svc.ListByPet(r.Context(), claims, petID, ListFilter{
			From:      q.Get("dataInicio"),
			To:        q.Get("dataFim"),
			Procedure: Procedure(q.Get("procedimento")),
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]appointmentResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAppointmentResponse(a))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getAppointmentHandler godoc
// @Summary Ver turno
// @Tags agenda
// @Produce json
// @Param agendaID path int true "ID del turno"
// @Success 200 {object} appointmentResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /agenda/{agendaID} [get]
func getAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "agendaID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		a, err := svc.Get(r.Context(), claims, id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// updateAppointmentHandler godoc
// @Summary Actualizar turno (parcial)
// @Description petId no se puede cambiar. PUT se comporta igual que PATCH.
// @Tags agenda
// @Accept json
// @Produce json
// @Param agendaID path int true "ID del turno"
// @Param payload body updateAppointmentRequest true "Campos a modificar"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /agenda/{agendaID} [patch]
func updateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "agendaID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req updateAppointmentRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		a, err := svc.Update(r.Context(), claims, id, UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

// deleteAppointmentHandler godoc
// @Summary Borrar turno
// @Tags agenda
// @Param agendaID path int true "ID del turno"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /agenda/{agendaID} [delete]
func deleteAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "agendaID")
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

// rateAppointmentHandler godoc
// @Summary Evaluar turno
// @Description Nota entera de 1 a 5. Un turno solo se evalúa una vez (409 si ya tiene nota).
// @Tags agenda
// @Accept json
// @Produce json
// @Param agendaID path int true "ID del turno"
// @Param payload body rateRequest true "Nota y comentario"
// @Success 200 {object} appointmentResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /agenda/{agendaID}/avaliar [post]
func rateAppointmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "agendaID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req rateRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		// Nota ausente o con decimales: mismo error que fuera de rango.
		if req.Score == nil || *req.Score != math.Trunc(*req.Score) || math.Abs(*req.Score) > 1e6 {
			httpx.WriteError(w, r, apperr.Validation(map[string]string{"nota": "A nota deve ser entre 1 e 5"}))
			return
		}

		a, err := svc.Rate(r.Context(), claims, id, RateInput{
			Score:   int(*req.Score),
			Comment: req.Comment,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAppointmentResponse(a))
	}
}

func toAppointmentResponse(a Appointment) appointmentResponse {
	return appointmentResponse{
		ID:            a.ID,
		PetID:         a.PetID,
		Procedure:     a.Procedure,
		Date:          a.Date,
		Time:          a.Time,
		Professional:  a.Professional,
		Notes:         a.Notes,
		RatingScore:   a.RatingScore,
		RatingComment: a.RatingComment,
		CreatedAt:     a.CreatedAt,
	}
}
