package factsfinder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sngm3741/facts-finders/api/internal/factsfinder/application"
	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
	"github.com/sngm3741/facts-finders/api/internal/infrastructure/excel"
)

// memRepository mirrors the Mongo filter semantics in memory.
type memRepository struct {
	mu        sync.Mutex
	records   []domain.Record
	insertErr error
	findErr   error
}

func (r *memRepository) Insert(_ context.Context, record *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	record.ID = "rec-" + time.Now().Format("150405.000000000")
	r.records = append(r.records, *record)
	return nil
}

func (r *memRepository) Find(_ context.Context, filter application.ExportFilter) ([]domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.Record
	for _, rec := range r.records {
		if filter.Start != nil && (rec.DateTime == nil || rec.DateTime.Before(*filter.Start)) {
			continue
		}
		if filter.End != nil && (rec.DateTime == nil || rec.DateTime.After(*filter.End)) {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(rec.Name), strings.ToLower(filter.Name)) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

type failingFormatter struct{}

func (failingFormatter) Format([]domain.Record, io.Writer) error {
	return errors.New("disk full")
}

func newTestRouter(repo *memRepository, validate bool, formatter application.WorkbookFormatter) http.Handler {
	if formatter == nil {
		formatter = excel.NewFormatter(time.UTC)
	}
	h := NewHandler(Config{
		Commands:  application.NewRecordCommandService(repo, application.CommandOptions{Validate: validate}),
		Queries:   application.NewRecordQueryService(repo),
		Formatter: formatter,
	})
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return r
}

func validPayload() map[string]any {
	return map[string]any{
		"dateTime":         "2024-06-15T10:30",
		"name":             "Johnathan",
		"etcCode":          "ETC-1",
		"customerName":     "Priya",
		"dob":              "1990-04-02",
		"contactNo1":       "9876543210",
		"contactNo2":       "",
		"force":            "Army",
		"bn":               "12",
		"comp":             "B",
		"married":          "Yes",
		"kids":             "1",
		"child1Age":        "6",
		"income":           "50000",
		"savings":          "",
		"insurancePremium": "1200",
		"planName":         "Term",
		"customerImage":    "https://img.example/1.jpg",
		"latitude":         12.97,
		"longitude":        77.59,
	}
}

func postJSON(t *testing.T, router http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/factsfinders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestCreate_StoresRecord(t *testing.T) {
	repo := &memRepository{}
	router := newTestRouter(repo, false, nil)

	rec := postJSON(t, router, validPayload())
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Record saved successfully", decodeMessage(t, rec))

	require.Len(t, repo.records, 1)
	stored := repo.records[0]
	assert.Equal(t, "Johnathan", stored.Name)
	assert.Equal(t, "9876543210", stored.ContactNo1)
	require.NotNil(t, stored.DateTime)
	assert.True(t, stored.DateTime.Equal(time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)))
	require.NotNil(t, stored.Income)
	assert.Equal(t, 50000.0, *stored.Income)
	assert.Nil(t, stored.Savings)
	require.NotNil(t, stored.Latitude)
	assert.Equal(t, 12.97, *stored.Latitude)
}

func TestCreate_TrustsClientByDefault(t *testing.T) {
	repo := &memRepository{}
	router := newTestRouter(repo, false, nil)

	payload := validPayload()
	payload["name"] = ""
	rec := postJSON(t, router, payload)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, repo.records, 1)
}

func TestCreate_ServerValidation(t *testing.T) {
	repo := &memRepository{}
	router := newTestRouter(repo, true, nil)

	payload := validPayload()
	payload["contactNo1"] = "12345"
	rec := postJSON(t, router, payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body validationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Contact No.1 must be a valid 10-digit number", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "contactNo1", body.Errors[0].Field)
	assert.Empty(t, repo.records)
}

func TestCreate_BadRequests(t *testing.T) {
	router := newTestRouter(&memRepository{}, false, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/factsfinders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	payload := validPayload()
	payload["income"] = "fifty-thousand"
	rec = postJSON(t, router, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeMessage(t, rec), "income")

	payload = validPayload()
	payload["dob"] = "yesterday"
	rec = postJSON(t, router, payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_StoreFailure(t *testing.T) {
	router := newTestRouter(&memRepository{insertErr: errors.New("connection reset")}, false, nil)

	rec := postJSON(t, router, validPayload())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Server error", decodeMessage(t, rec))
}

func seedDated(repo *memRepository, name string, dates ...string) {
	for _, d := range dates {
		ts, _ := time.Parse("2006-01-02", d)
		ts = ts.Add(12 * time.Hour)
		repo.records = append(repo.records, domain.Record{ID: d, Name: name, DateTime: &ts})
	}
}

func getExport(router http.Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/factsfinders/excel"+query, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func readSheet(t *testing.T, body []byte) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(excel.SheetName)
	require.NoError(t, err)
	return rows
}

func TestExport_Workbook(t *testing.T) {
	repo := &memRepository{}
	seedDated(repo, "Asha", "2024-01-01", "2024-06-15", "2024-12-31")
	router := newTestRouter(repo, false, nil)

	rec := getExport(router, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, excel.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=factsfinders_data.xlsx", rec.Header().Get("Content-Disposition"))

	rows := readSheet(t, rec.Body.Bytes())
	require.Len(t, rows, 4)
	assert.Equal(t, excel.Headers, rows[0][:len(excel.Headers)])
}

func TestExport_DateFilter(t *testing.T) {
	repo := &memRepository{}
	seedDated(repo, "Asha", "2024-01-01", "2024-06-15", "2024-12-31")
	router := newTestRouter(repo, false, nil)

	rec := getExport(router, "?startDate=2024-03-01&endDate=2024-09-01")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := readSheet(t, rec.Body.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, "6/15/2024, 12:00:00 PM", rows[1][0])
}

func TestExport_NameFilter(t *testing.T) {
	repo := &memRepository{}
	seedDated(repo, "Johnathan", "2024-02-02")
	seedDated(repo, "Meera", "2024-02-03")
	router := newTestRouter(repo, false, nil)

	rec := getExport(router, "?name=john")
	require.Equal(t, http.StatusOK, rec.Code)
	rows := readSheet(t, rec.Body.Bytes())
	require.Len(t, rows, 2)
	assert.Equal(t, "Johnathan", rows[1][1])
}

func TestExport_Failures(t *testing.T) {
	repo := &memRepository{}
	router := newTestRouter(repo, false, nil)

	rec := getExport(router, "?name=nobody")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No data found for given filters", decodeMessage(t, rec))

	rec = getExport(router, "?startDate=soon")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	seedDated(repo, "Asha", "2024-01-01")
	rec = getExport(newTestRouter(repo, false, failingFormatter{}), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error generating Excel", decodeMessage(t, rec))

	rec = getExport(newTestRouter(&memRepository{findErr: errors.New("timeout")}, false, nil), "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
