package healthrecords

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"pet-care-manager/internal/domain/access"
	"pet-care-manager/internal/platform/apperr"
	"pet-care-manager/internal/platform/logger"
	"pet-care-manager/internal/platform/patch"
	"pet-care-manager/internal/platform/validate"
	"pet-care-manager/internal/ports/auth"
	"pet-care-manager/internal/ports/blobstore"
)

// DefaultMaxUpload es el tamaño máximo de adjunto (5 MiB).
const DefaultMaxUpload int64 = 5 << 20

type Authorizer interface {
	AuthorizePet(ctx context.Context, caller auth.Claims, petID int64) error
	AuthorizeRecordDeletion(ctx context.Context, caller auth.Claims, facts access.RecordFacts) error
}

type Service struct {
	repo      Repository
	authz     Authorizer
	blobs     blobstore.Store
	maxUpload int64

	now    func() time.Time
	newKey func(petID int64, ext string) string
}

func NewService(repo Repository, authz Authorizer, blobs blobstore.Store, maxUpload int64) *Service {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &Service{
		repo:      repo,
		authz:     authz,
		blobs:     blobs,
		maxUpload: maxUpload,
		now:       time.Now,
		newKey: func(petID int64, ext string) string {
			return fmt.Sprintf("registros/%d/%s%s", petID, uuid.NewString(), ext)
		},
	}
}

func (s *Service) MaxUpload() int64 { return s.maxUpload }

type CreateInput struct {
	PetID        int64
	Type         string
	Date         string
	Time         string
	Professional string
	File         *Attachment
}

type UpdateInput struct {
	Type         patch.Field[string] // solo para rechazar cambios de tipo
	Date         patch.Field[string]
	Time         patch.Field[string]
	Professional patch.Field[string]
	FilePath     patch.Field[string] // solo null: quita el adjunto
	File         *Attachment         // reemplaza el adjunto
}

func (in UpdateInput) empty() bool {
	return !in.Type.Present && !in.Date.Present && !in.Time.Present &&
		!in.Professional.Present && !in.FilePath.Present && in.File == nil
}

func (s *Service) Create(ctx context.Context, caller auth.Claims, in CreateInput) (Record, error) {
	if in.PetID <= 0 {
		return Record{}, apperr.Validation(map[string]string{"petId": "Pet é obrigatório"})
	}
	if err := s.authz.AuthorizePet(ctx, caller, in.PetID); err != nil {
		return Record{}, err
	}

	errs := validate.Errors{}
	date := validate.Clean(in.Date)
	checkDate(errs, date)
	clock := validate.Clean(in.Time)
	checkTime(errs, clock)
	professional := validate.Clean(in.Professional)
	checkProfessional(errs, professional)
	typ := Type(validate.Clean(in.Type))
	if !validate.OneOf(typ, AllTypes) {
		errs.Add("tipoRegistro", "Tipo de registro inválido")
	}
	ext := s.checkAttachment(errs, in.File)
	if err := errs.Err(); err != nil {
		return Record{}, err
	}

	var key *string
	if in.File != nil {
		k, err := s.upload(ctx, in.PetID, ext, in.File)
		if err != nil {
			return Record{}, err
		}
		key = &k
	}

	rec, err := s.repo.Create(ctx, Record{
		PetID:        in.PetID,
		UserID:       caller.UserID,
		Type:         typ,
		Date:         date,
		Time:         clock,
		Professional: professional,
		FilePath:     key,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if key != nil {
			s.removeBlob(ctx, *key)
		}
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, caller auth.Claims, id int64) (Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if err := s.authz.AuthorizePet(ctx, caller, rec.PetID); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List devuelve los registros de todas las mascotas del caller.
func (s *Service) List(ctx context.Context, caller auth.Claims, filter ListFilter) ([]Record, error) {
	errs := validate.Errors{}
	filter.From = validate.Clean(filter.From)
	filter.To = validate.Clean(filter.To)
	if filter.From != "" && !validate.IsDate(filter.From) {
		errs.Add("dataInicio", "Data inválida (use YYYY-MM-DD)")
	}
	if filter.To != "" && !validate.IsDate(filter.To) {
		errs.Add("dataFim", "Data inválida (use YYYY-MM-DD)")
	}
	if filter.Type != "" {
		filter.Type = Type(validate.Clean(string(filter.Type)))
		if !validate.OneOf(filter.Type, AllTypes) {
			errs.Add("tipoRegistro", "Tipo de registro inválido")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if filter.PetID > 0 {
		if err := s.authz.AuthorizePet(ctx, caller, filter.PetID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListByOwner(ctx, caller.UserID, filter)
}

// Update valida solo los campos presentes. El tipo no se puede cambiar;
// un archivo nuevo reemplaza al anterior (que se borra del blob store).
func (s *Service) Update(ctx context.Context, caller auth.Claims, id int64, in UpdateInput) (Record, error) {
	current, err := s.Get(ctx, caller, id)
	if err != nil {
		return Record{}, err
	}
	if in.empty() {
		return current, nil
	}

	errs := validate.Errors{}
	next := current

	if in.Type.Present && Type(validate.Clean(in.Type.Value)) != current.Type {
		errs.Add("tipoRegistro", "Tipo de registro não pode ser alterado")
	}
	if in.Date.Present {
		next.Date = validate.Clean(in.Date.Value)
		checkDate(errs, next.Date)
	}
	if in.Time.Present {
		next.Time = validate.Clean(in.Time.Value)
		checkTime(errs, next.Time)
	}
	if in.Professional.Present {
		next.Professional = validate.Clean(in.Professional.Value)
		checkProfessional(errs, next.Professional)
	}
	if in.FilePath.Present && !in.FilePath.Null {
		errs.Add("filePath", "filePath só aceita null (remover arquivo)")
	}
	ext := s.checkAttachment(errs, in.File)
	if err := errs.Err(); err != nil {
		return Record{}, err
	}

	var uploaded *string
	switch {
	case in.File != nil:
		k, err := s.upload(ctx, current.PetID, ext, in.File)
		if err != nil {
			return Record{}, err
		}
		uploaded = &k
		next.FilePath = uploaded
	case in.FilePath.Present:
		next.FilePath = nil
	}

	saved, err := s.repo.Update(ctx, next)
	if err != nil {
		if uploaded != nil {
			s.removeBlob(ctx, *uploaded)
		}
		return Record{}, err
	}
	if current.FilePath != nil && (saved.FilePath == nil || *saved.FilePath != *current.FilePath) {
		s.removeBlob(ctx, *current.FilePath)
	}
	return saved, nil
}

// Delete aplica la regla de borrado configurada en la política.
func (s *Service) Delete(ctx context.Context, caller auth.Claims, id int64) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = s.authz.AuthorizeRecordDeletion(ctx, caller, access.RecordFacts{
		PetID:         rec.PetID,
		CreatorID:     rec.UserID,
		IsObservation: rec.IsObservation(),
	})
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete health record %d: %w", id, err)
	}
	if rec.FilePath != nil {
		s.removeBlob(ctx, *rec.FilePath)
	}
	return nil
}

// Download abre el adjunto de un registro (el caller debe ser dueño de la mascota).
func (s *Service) Download(ctx context.Context, caller auth.Claims, id int64) (blobstore.Info, io.ReadCloser, error) {
	rec, err := s.Get(ctx, caller, id)
	if err != nil {
		return blobstore.Info{}, nil, err
	}
	if rec.FilePath == nil {
		return blobstore.Info{}, nil, apperr.NotFound("record has no attachment")
	}
	info, rc, err := s.blobs.Get(ctx, *rec.FilePath)
	if errors.Is(err, blobstore.ErrNotFound) {
		return blobstore.Info{}, nil, apperr.NotFound("attachment not found")
	}
	if err != nil {
		return blobstore.Info{}, nil, fmt.Errorf("open attachment: %w", err)
	}
	return info, rc, nil
}

// AttachmentCleanup junta los adjuntos de una mascota antes de que se borre
// y devuelve la función que los elimina (pets.CleanupFunc).
func (s *Service) AttachmentCleanup(ctx context.Context, petID int64) func() {
	recs, err := s.repo.ListByPet(ctx, petID, ListFilter{})
	if err != nil {
		logger.FromContext(ctx).Warn("list attachments for pet cleanup", logger.Fields{"pet_id": petID, "err": err})
		return nil
	}
	keys := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.FilePath != nil {
			keys = append(keys, *r.FilePath)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return func() {
		for _, k := range keys {
			s.removeBlob(ctx, k)
		}
	}
}

// ListByPet lo usa el relatório de salud; la autorización la hace el caller.
func (s *Service) ListByPet(ctx context.Context, petID int64, filter ListFilter) ([]Record, error) {
	return s.repo.ListByPet(ctx, petID, filter)
}

func (s *Service) checkAttachment(errs validate.Errors, f *Attachment) string {
	if f == nil {
		return ""
	}
	ext, ok := allowedMIME[normalizeMIME(f.ContentType)]
	if !ok {
		errs.Add("arquivo", "Tipo de arquivo inválido. Apenas PDF, PNG e JPG são permitidos.")
	}
	if f.Size > s.maxUpload {
		errs.Add("arquivo", fmt.Sprintf("Arquivo deve ter no máximo %d MB", s.maxUpload>>20))
	}
	return ext
}

func (s *Service) upload(ctx context.Context, petID int64, ext string, f *Attachment) (string, error) {
	key := s.newKey(petID, ext)
	// +1 para detectar archivos más grandes que el límite aunque Size mienta.
	body := io.LimitReader(f.Body, s.maxUpload+1)
	info, err := s.blobs.Put(ctx, key, body, blobstore.PutOptions{ContentType: normalizeMIME(f.ContentType)})
	if err != nil {
		return "", fmt.Errorf("store attachment: %w", err)
	}
	if info.Size > s.maxUpload {
		s.removeBlob(ctx, key)
		return "", apperr.Validation(map[string]string{"arquivo": fmt.Sprintf("Arquivo deve ter no máximo %d MB", s.maxUpload>>20)})
	}
	return key, nil
}

func (s *Service) removeBlob(ctx context.Context, key string) {
	if _, err := s.blobs.Delete(context.WithoutCancel(ctx), key); err != nil {
		logger.FromContext(ctx).Warn("remove attachment", logger.Fields{"key": key, "err": err})
	}
}

func checkDate(errs validate.Errors, date string) {
	switch {
	case date == "":
		errs.Add("data", "Data é obrigatória")
	case !validate.IsDate(date):
		errs.Add("data", "Data inválida (use YYYY-MM-DD)")
	}
}

func checkTime(errs validate.Errors, clock string) {
	switch {
	case clock == "":
		errs.Add("horario", "Horário é obrigatório")
	case !validate.IsClock(clock):
		errs.Add("horario", "Horário inválido (use HH:MM)")
	}
}

func checkProfessional(errs validate.Errors, p string) {
	switch {
	case p == "":
		errs.Add("profissional", "Profissional é obrigatório")
	case !validate.LenBetween(p, 3, 100):
		errs.Add("profissional", "Profissional deve ter entre 3 e 100 caracteres")
	}
}
