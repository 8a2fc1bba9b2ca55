package pets

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-care-manager/internal/platform/httpx"
	"pet-care-manager/internal/platform/patch"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Put("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

// createPetRequest es el cuerpo para registrar una mascota.
type createPetRequest struct {
	Name    string   `json:"name"`
	Species string   `json:"species" enums:"Cachorro,Cavalo,Gato,Outros"`
	Breed   *string  `json:"breed"`
	Sex     *string  `json:"sex" enums:"Macho,Fêmea,Irrelevante"`
	Age     *int     `json:"age"`
	Weight  *float64 `json:"weight"`
	Height  *float64 `json:"height"`
	Notes   *string  `json:"notes"`
}

// updatePetRequest: campo ausente = no tocar, null = limpiar.
type updatePetRequest struct {
	Name    patch.Field[string]  `json:"name" swaggertype:"string"`
	Species patch.Field[string]  `json:"species" swaggertype:"string"`
	Breed   patch.Field[string]  `json:"breed" swaggertype:"string"`
	Sex     patch.Field[string]  `json:"sex" swaggertype:"string"`
	Age     patch.Field[int]     `json:"age" swaggertype:"integer"`
	Weight  patch.Field[float64] `json:"weight" swaggertype:"number"`
	Height  patch.Field[float64] `json:"height" swaggertype:"number"`
	Notes   patch.Field[string]  `json:"notes" swaggertype:"string"`
}

type PetResponse struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"ownerId"`
	Name      string    `json:"name"`
	Species   Species   `json:"species"`
	Breed     *string   `json:"breed"`
	Sex       *Sex      `json:"sex"`
	Age       *int      `json:"age"`
	Weight    *float64  `json:"weight"`
	Height    *float64  `json:"height"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description El caller autenticado queda como dueño. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>`.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} PetResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req createPetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:    req.Name,
			Species: req.Species,
			Breed:   req.Breed,
			Sex:     req.Sex,
			Age:     req.Age,
			Weight:  req.Weight,
			Height:  req.Height,
			Notes:   req.Notes,
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, ToPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Tags pets
// @Produce json
// @Success 200 {array} PetResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]PetResponse, 0, len(items))
		for _, p := range items {
			out = append(out, ToPetResponse(p))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Perfil de mascota
// @Tags pets
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} PetResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "petID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Get(r.Context(), claims, id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToPetResponse(p))
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota (parcial)
// @Description Solo se validan y aplican los campos enviados. PUT se comporta igual que PATCH.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} PetResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "petID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var req updatePetRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		p, err := svc.Update(r.Context(), claims, id, UpdateInput(req))
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, ToPetResponse(p))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra en cascada agenda, despesas y registros de salud.
// @Tags pets
// @Param petID path int true "ID de la mascota"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "petID")
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

func ToPetResponse(p Pet) PetResponse {
	return PetResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Sex:       p.Sex,
		Age:       p.Age,
		Weight:    p.Weight,
		Height:    p.Height,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
