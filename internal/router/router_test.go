package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"pet-care-manager/internal/adapters/blob"
	"pet-care-manager/internal/domain/access"
	"pet-care-manager/internal/router"
)

const (
	tutorA = "7"
	tutorB = "8"
	vet    = "9"
)

type caller struct {
	id  string
	typ string
}

var (
	owner    = caller{id: tutorA}
	stranger = caller{id: tutorB}
	vetUser  = caller{id: vet, typ: "Veterinário"}
	anon     = caller{}
)

func TestHTTP_EndToEnd_OwnershipAndValidation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// 1) Sin identidad => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets", anon, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without caller, got %d", st)
		}
	}

	// 2) Owner crea mascota; otro usuario no la ve
	petID := createPet(t, ts.URL, owner, map[string]any{
		"name":    "Rex",
		"species": "Cachorro",
		"sex":     "Macho",
		"weight":  12.5,
	})
	{
		st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID, stranger, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for non-owner, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/pets/999", owner, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown pet, got %d", st)
		}
	}

	// 3) Agenda: crear, evaluar con nota inválida, evaluar, re-evaluar
	agendaID := createID(t, ts.URL, "/agenda", owner, map[string]any{
		"petId":        mustInt(t, petID),
		"procedimento": "Vacina",
		"data":         "2025-03-10",
		"horario":      "09:30",
	})
	{
		st, body := doReq(t, ts.URL, "POST", "/agenda/"+agendaID+"/avaliar", owner, map[string]any{"nota": 6})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for nota=6, got %d body=%s", st, string(body))
		}
		errs := decodeErrors(t, body)
		if errs["nota"] == "" {
			t.Fatalf("expected error on nota, body=%s", string(body))
		}

		st, body = doReq(t, ts.URL, "POST", "/agenda/"+agendaID+"/avaliar", owner, map[string]any{"nota": 5, "comentario": "Ótimo"})
		if st != http.StatusOK {
			t.Fatalf("expected 200 rating, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "POST", "/agenda/"+agendaID+"/avaliar", owner, map[string]any{"nota": 4})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 re-rating, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/agenda/"+agendaID+"/avaliar", stranger, map[string]any{"nota": 4})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 rating by non-owner, got %d", st)
		}
	}

	// 4) Validación agrupada por campo
	{
		st, body := doReq(t, ts.URL, "POST", "/agenda", owner, map[string]any{
			"petId":        mustInt(t, petID),
			"procedimento": "Xx",
			"data":         "10/03/2025",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", st, string(body))
		}
		errs := decodeErrors(t, body)
		for _, f := range []string{"procedimento", "data", "horario"} {
			if errs[f] == "" {
				t.Fatalf("expected error on %s, body=%s", f, string(body))
			}
		}
	}

	// 5) Pets de otro owner no aparecen
	{
		st, body := doReq(t, ts.URL, "GET", "/pets", stranger, nil)
		if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
			t.Fatalf("expected empty list for other user, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_Expenses_TutorOnlyAndRounding(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	petID := createPet(t, ts.URL, owner, map[string]any{"name": "Mia", "species": "Gato"})

	{
		st, _ := doReq(t, ts.URL, "GET", "/despesas", vetUser, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for Veterinário, got %d", st)
		}
	}

	expenseID := createID(t, ts.URL, "/despesas", owner, map[string]any{
		"petId":     mustInt(t, petID),
		"categoria": "Alimentação",
		"descricao": "Ração premium",
		"valor":     19.995,
		"data":      "2025-03-01",
	})
	createID(t, ts.URL, "/despesas", owner, map[string]any{
		"petId":     mustInt(t, petID),
		"categoria": "Saúde",
		"descricao": "Consulta",
		"valor":     "80.5",
		"data":      "2025-03-02",
	})

	{
		st, body := doReq(t, ts.URL, "GET", "/despesas/"+expenseID, owner, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"valor":20.00`) {
			t.Fatalf("expected rounded valor 20.00, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/despesas/"+expenseID, stranger, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for other tutor, got %d", st)
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/despesas/summary", owner, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 summary, got %d body=%s", st, string(body))
		}
		var sum struct {
			Total        json.Number            `json:"total"`
			PorCategoria map[string]json.Number `json:"porCategoria"`
		}
		if err := json.Unmarshal(body, &sum); err != nil {
			t.Fatalf("decode summary: %v", err)
		}
		if sum.Total.String() != "100.50" || len(sum.PorCategoria) != 7 || sum.PorCategoria["Higiene"].String() != "0.00" {
			t.Fatalf("unexpected summary %s", string(body))
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/relatorios/financeiro?dataInicio=2025-03-02", owner, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"totalGeral":80.50`) {
			t.Fatalf("expected financial report, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_HealthRecords_StrictDeletionAndAttachments(t *testing.T) {
	blobs := blob.NewMemory()
	ts := httptest.NewServer(router.NewRouter(router.Options{Blobs: blobs}))
	defer ts.Close()

	petID := createPet(t, ts.URL, owner, map[string]any{"name": "Rex", "species": "Cachorro"})

	examID := createID(t, ts.URL, "/registros-saude", owner, map[string]any{
		"petId":        mustInt(t, petID),
		"tipoRegistro": "Exame",
		"data":         "2025-03-10",
		"horario":      "10:00",
		"profissional": "Dra. Ana",
	})
	{
		st, body := doReq(t, ts.URL, "DELETE", "/registros-saude/"+examID, owner, nil)
		if st != http.StatusForbidden || !strings.Contains(string(body), "deletion_not_allowed") {
			t.Fatalf("expected 403 deletion_not_allowed, got %d body=%s", st, string(body))
		}
	}

	// Observação con adjunto por multipart
	st, body := doMultipart(t, ts.URL, "/registros-saude", owner, map[string]string{
		"petId":        petID,
		"tipoRegistro": "Observação",
		"data":         "2025-03-11",
		"horario":      "08:15",
		"profissional": "Tutor Rex",
	}, "nota.pdf", "application/pdf", []byte("%PDF-1.4 nota"))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 multipart create, got %d body=%s", st, string(body))
	}
	var obs struct {
		ID       int64   `json:"id"`
		FilePath *string `json:"filePath"`
	}
	_ = json.Unmarshal(body, &obs)
	if obs.FilePath == nil || blobs.Len() != 1 {
		t.Fatalf("expected stored attachment, body=%s", string(body))
	}
	obsID := fmt.Sprint(obs.ID)

	{
		st, body := doReq(t, ts.URL, "GET", "/registros-saude/"+obsID+"/arquivo", owner, nil)
		if st != http.StatusOK || string(body) != "%PDF-1.4 nota" {
			t.Fatalf("expected attachment bytes, got %d body=%s", st, string(body))
		}
	}

	// Tipo de archivo inválido
	{
		st, body := doMultipart(t, ts.URL, "/registros-saude", owner, map[string]string{
			"petId":        petID,
			"tipoRegistro": "Exame",
			"data":         "2025-03-11",
			"horario":      "08:15",
			"profissional": "Dra. Ana",
		}, "notes.txt", "text/plain", []byte("hello"))
		if st != http.StatusBadRequest || decodeErrors(t, body)["arquivo"] == "" {
			t.Fatalf("expected 400 on arquivo, got %d body=%s", st, string(body))
		}
	}

	{
		st, _ := doReq(t, ts.URL, "DELETE", "/registros-saude/"+obsID, owner, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 deleting own observation, got %d", st)
		}
		if blobs.Len() != 0 {
			t.Fatalf("expected attachment removed, blobs=%d", blobs.Len())
		}
	}

	// Borrar la mascota se lleva sus registros y adjuntos
	{
		st, body := doMultipart(t, ts.URL, "/registros-saude", owner, map[string]string{
			"petId":        petID,
			"tipoRegistro": "Vacina",
			"data":         "2025-03-12",
			"horario":      "11:00",
			"profissional": "Dra. Ana",
		}, "cartao.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
		if st != http.StatusCreated || blobs.Len() != 1 {
			t.Fatalf("expected stored attachment, got %d blobs=%d body=%s", st, blobs.Len(), string(body))
		}

		st, _ = doReq(t, ts.URL, "DELETE", "/pets/"+petID, owner, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 deleting pet, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/registros-saude/"+examID, owner, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after cascade, got %d", st)
		}
		if blobs.Len() != 0 {
			t.Fatalf("expected attachments removed with pet, blobs=%d", blobs.Len())
		}
	}
}

func TestHTTP_HealthRecords_PermissiveRule(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{DeletionRule: access.DeletionPermissive}))
	defer ts.Close()

	petID := createPet(t, ts.URL, owner, map[string]any{"name": "Rex", "species": "Cachorro"})
	examID := createID(t, ts.URL, "/registros-saude", owner, map[string]any{
		"petId":        mustInt(t, petID),
		"tipoRegistro": "Exame",
		"data":         "2025-03-10",
		"horario":      "10:00",
		"profissional": "Dra. Ana",
	})

	st, body := doReq(t, ts.URL, "DELETE", "/registros-saude/"+examID, vetUser, nil)
	if st != http.StatusNoContent {
		t.Fatalf("expected 204 for vet under permissive rule, got %d body=%s", st, string(body))
	}
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", anon, nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected ok health, got %d body=%s", st, string(body))
	}

	st, body = doReq(t, ts.URL, "GET", "/metrics", anon, nil)
	if st != http.StatusOK || !strings.Contains(string(body), `petcare_http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Fatalf("expected request counter in metrics, got %d body=%s", st, string(body))
	}
}

func createPet(t *testing.T, baseURL string, c caller, payload map[string]any) string {
	t.Helper()
	return createID(t, baseURL, "/pets", c, payload)
}

func createID(t *testing.T, baseURL, path string, c caller, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, c, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}

	var resp struct {
		ID int64 `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID <= 0 {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return fmt.Sprint(resp.ID)
}

func mustInt(t *testing.T, id string) int64 {
	t.Helper()
	var n int64
	if _, err := fmt.Sscan(id, &n); err != nil {
		t.Fatalf("bad id %q: %v", id, err)
	}
	return n
}

func decodeErrors(t *testing.T, body []byte) map[string]string {
	t.Helper()
	var resp struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode error body: %v body=%s", err, string(body))
	}
	if resp.Message != "ValidationError" {
		t.Fatalf("expected ValidationError, body=%s", string(body))
	}
	return resp.Errors
}

func setCaller(req *http.Request, c caller) {
	if c.id != "" {
		req.Header.Set("X-Debug-User-ID", c.id)
	}
	if c.typ != "" {
		req.Header.Set("X-Debug-User-Type", c.typ)
	}
}

func doMultipart(t *testing.T, baseURL, path string, c caller, fields map[string]string, filename, contentType string, data []byte) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	_, _ = part.Write(data)
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	setCaller(req, c)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReq(t *testing.T, baseURL, method, path string, c caller, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	setCaller(req, c)

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
