package healthrecords

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/httpx"
	"pet-care-manager/internal/platform/logger"
	"pet-care-manager/internal/platform/patch"
)

// FileField es el campo multipart del adjunto.
const FileField = "file"

// multipartOverhead cubre los campos de texto y los boundaries del form.
const multipartOverhead = 64 << 10

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/registros-saude", func(rr chi.Router) {
		rr.Get("/", listRecordsHandler(svc))
		rr.Post("/", createRecordHandler(svc))

		rr.Get("/{registroID}", getRecordHandler(svc))
		rr.Patch("/{registroID}", updateRecordHandler(svc))
		rr.Put("/{registroID}", updateRecordHandler(svc))
		rr.Delete("/{registroID}", deleteRecordHandler(svc))

		rr.Get("/{registroID}/arquivo", downloadAttachmentHandler(svc))
	})
}

type createRecordRequest struct {
	PetID        int64  `json:"petId"`
	Type         string `json:"tipoRegistro" enums:"Vacina,Cirurgia,Exame,Observação"`
	Date         string `json:"data"`    // YYYY-MM-DD
	Time         string `json:"horario"` // HH:MM
	Professional string `json:"profissional"`
}

type updateRecordRequest struct {
	Type         patch.Field[string] `json:"tipoRegistro" swaggertype:"string"`
	Date         patch.Field[string] `json:"data" swaggertype:"string"`
	Time         patch.Field[string] `json:"horario" swaggertype:"string"`
	Professional patch.Field[string] `json:"profissional" swaggertype:"string"`
	FilePath     patch.Field[string] `json:"filePath" swaggertype:"string"`
}

type recordResponse struct {
	ID           int64     `json:"id"`
	PetID        int64     `json:"petId"`
	UserID       int64     `json:"userId"`
	Type         Type      `json:"tipoRegistro"`
	Date         string    `json:"data"`
	Time         string    `json:"horario"`
	Professional string    `json:"profissional"`
	FilePath     *string   `json:"filePath"`
	CreatedAt    time.Time `json:"createdAt"`
}

// createRecordHandler godoc
// @Summary Crear registro de salud
// @Description Acepta JSON o multipart/form-data (campo "file": PDF, PNG o JPG hasta 5 MB).
// @Tags registros-saude
// @Accept json,mpfd
// @Produce json
// @Param payload body createRecordRequest true "Datos del registro"
// @Success 201 {object} recordResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /registros-saude [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var in CreateInput
		if isMultipart(r) {
			form, file, err := readMultipart(w, r, svc.MaxUpload())
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			defer closeFile(r, file)

			if raw := form.Get("petId"); raw != "" {
				id, perr := strconv.ParseInt(raw, 10, 64)
				if perr != nil || id <= 0 {
					httpx.WriteError(w, r, apperr.Validation(map[string]string{"petId": "ID inválido"}))
					return
				}
				in.PetID = id
			}
			in.Type = form.Get("tipoRegistro")
			in.Date = form.Get("data")
			in.Time = form.Get("horario")
			in.Professional = form.Get("profissional")
			in.File = file.attachment()
		} else {
			var req createRecordRequest
			if err := httpx.DecodeJSON(r, &req); err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			in = CreateInput{
				PetID:        req.PetID,
				Type:         req.Type,
				Date:         req.Date,
				Time:         req.Time,
				Professional: req.Professional,
			}
		}

		rec, err := svc.Create(r.Context(), claims, in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toRecordResponse(rec))
	}
}

// listRecordsHandler godoc
// @Summary Listar registros de salud
// @Description Registros de todas las mascotas del usuario, ordenados por data, horario e id descendentes.
// @Tags registros-saude
// @Produce json
// @Param petId query int false "Filtro por mascota"
// @Param tipoRegistro query string false "Filtro por tipo"
// @Param dataInicio query string false "YYYY-MM-DD inclusive"
// @Param dataFim query string false "YYYY-MM-DD inclusive"
// @Success 200 {array} recordResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /registros-saude [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
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

		q := r.URL.Query()
		items, err := svc.List(r.Context(), claims, ListFilter{
			PetID: petID,
			Type:  Type(q.Get("tipoRegistro")),
			From:  q.Get("dataInicio"),
			To:    q.Get("dataFim"),
		})
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		out := make([]recordResponse, 0, len(items))
		for _, rec := range items {
			out = append(out, toRecordResponse(rec))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// getRecordHandler godoc
// @Summary Ver registro de salud
// @Tags registros-saude
// @Produce json
// @Param registroID path int true "ID del registro"
// @Success 200 {object} recordResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /registros-saude/{registroID} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "registroID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		rec, err := svc.Get(r.Context(), claims, id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// updateRecordHandler godoc
// @Summary Actualizar registro de salud (parcial)
// @Description tipoRegistro no se puede cambiar. filePath solo acepta null. Un "file" multipart reemplaza el adjunto.
// @Tags registros-saude
// @Accept json,mpfd
// @Produce json
// @Param registroID path int true "ID del registro"
// @Param payload body updateRecordRequest true "Campos a modificar"
// @Success 200 {object} recordResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /registros-saude/{registroID} [patch]
func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "registroID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		var in UpdateInput
		if isMultipart(r) {
			form, file, err := readMultipart(w, r, svc.MaxUpload())
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			defer closeFile(r, file)

			in.Type = formField(form, "tipoRegistro")
			in.Date = formField(form, "data")
			in.Time = formField(form, "horario")
			in.Professional = formField(form, "profissional")
			in.File = file.attachment()
		} else {
			var req updateRecordRequest
			if err := httpx.DecodeJSON(r, &req); err != nil {
				httpx.WriteError(w, r, err)
				return
			}
			in = UpdateInput{
				Type:         req.Type,
				Date:         req.Date,
				Time:         req.Time,
				Professional: req.Professional,
				FilePath:     req.FilePath,
			}
		}

		rec, err := svc.Update(r.Context(), claims, id, in)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toRecordResponse(rec))
	}
}

// deleteRecordHandler godoc
// @Summary Borrar registro de salud
// @Description Por defecto solo el Tutor que creó una Observação puede borrarla (403 deletion_not_allowed en otro caso).
// @Tags registros-saude
// @Param registroID path int true "ID del registro"
// @Success 204
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /registros-saude/{registroID} [delete]
func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "registroID")
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

// downloadAttachmentHandler godoc
// @Summary Descargar adjunto
// @Tags registros-saude
// @Produce application/pdf,image/png,image/jpeg
// @Param registroID path int true "ID del registro"
// @Success 200 {file} binary
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /registros-saude/{registroID}/arquivo [get]
func downloadAttachmentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := httpx.Claims(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		id, err := httpx.IDParam(r, "registroID")
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}

		info, body, err := svc.Download(r.Context(), claims, id)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		defer body.Close()

		ct := info.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		if info.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
		}
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, body); err != nil {
			logger.FromContext(r.Context()).Warn("stream attachment", logger.Fields{"record_id": id, "err": err})
		}
	}
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

type uploadedFile struct {
	file   multipart.File
	header *multipart.FileHeader
}

func (u *uploadedFile) attachment() *Attachment {
	if u == nil {
		return nil
	}
	return &Attachment{
		Name:        u.header.Filename,
		ContentType: u.header.Header.Get("Content-Type"),
		Size:        u.header.Size,
		Body:        u.file,
	}
}

func closeFile(r *http.Request, u *uploadedFile) {
	if u == nil {
		return
	}
	if err := u.file.Close(); err != nil {
		logger.FromContext(r.Context()).Debug("close multipart file", logger.Fields{"err": err})
	}
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// readMultipart limita el body y devuelve los campos de texto y el archivo
// (nil si no vino "file").
func readMultipart(w http.ResponseWriter, r *http.Request, maxUpload int64) (formValues, *uploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, nil, apperr.Validation(map[string]string{"arquivo": "Arquivo muito grande"})
		}
		return nil, nil, apperr.Validation(map[string]string{"body": "multipart inválido"})
	}

	form := formValues(r.MultipartForm.Value)
	f, hdr, err := r.FormFile(FileField)
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, nil
	}
	if err != nil {
		return nil, nil, apperr.Validation(map[string]string{"arquivo": "Arquivo inválido"})
	}
	return form, &uploadedFile{file: f, header: hdr}, nil
}

type formValues map[string][]string

func (f formValues) Get(key string) string {
	if v := f[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// formField convierte un campo de form en patch.Field: ausente si no vino.
func formField(f formValues, key string) patch.Field[string] {
	v, ok := f[key]
	if !ok || len(v) == 0 {
		return patch.Field[string]{}
	}
	return patch.Set(v[0])
}

func toRecordResponse(rec Record) recordResponse {
	return recordResponse{
		ID:           rec.ID,
		PetID:        rec.PetID,
		UserID:       rec.UserID,
		Type:         rec.Type,
		Date:         rec.Date,
		Time:         rec.Time,
		Professional: rec.Professional,
		FilePath:     rec.FilePath,
		CreatedAt:    rec.CreatedAt,
	}
}
