package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testRouter mounts handlers behind a stand-in for the auth middleware.
func testRouter(userID, role string, mount func(protected *gin.RouterGroup)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	protected := r.Group("/v1", func(c *gin.Context) {
		c.Set(string(domain.KeyUserID), userID)
		c.Set(string(domain.KeyUserRole), role)
		c.Next()
	})
	mount(protected)
	return r
}

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, response.Response) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var body response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

type fakeApplicationUC struct {
	domain.JobApplicationUsecase
	app    *domain.JobApplication
	export []byte
}

func (f *fakeApplicationUC) Get(context.Context, uuid.UUID) (*domain.JobApplication, error) {
	if f.app == nil {
		return nil, domain.ErrNotFound
	}
	return f.app, nil
}

func (f *fakeApplicationUC) ExportByJobPost(context.Context, string, int) ([]byte, error) {
	return f.export, nil
}

func TestJobApplicationHandler_Get(t *testing.T) {
	app := &domain.JobApplication{ID: uuid.New(), UserID: "owner"}
	uc := &fakeApplicationUC{app: app}
	path := "/v1/applications/" + app.ID.String()

	t.Run("owner sees the application", func(t *testing.T) {
		r := testRouter("owner", domain.RoleCandidate, func(g *gin.RouterGroup) { NewJobApplicationHandler(g, uc) })
		w, body := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
	})

	t.Run("other candidates get not found", func(t *testing.T) {
		r := testRouter("someone-else", domain.RoleCandidate, func(g *gin.RouterGroup) { NewJobApplicationHandler(g, uc) })
		w, body := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, body.Success)
	})

	t.Run("recruiters see any application", func(t *testing.T) {
		r := testRouter("recruiter-1", domain.RoleRecruiter, func(g *gin.RouterGroup) { NewJobApplicationHandler(g, uc) })
		w, _ := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		r := testRouter("owner", domain.RoleCandidate, func(g *gin.RouterGroup) { NewJobApplicationHandler(g, uc) })
		w, _ := serve(r, httptest.NewRequest(http.MethodGet, "/v1/applications/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJobApplicationHandler_Export(t *testing.T) {
	uc := &fakeApplicationUC{export: []byte("xlsx-bytes")}
	path := "/v1/job-posts/backend/versions/2/applications/export"

	t.Run("recruiter downloads the workbook", func(t *testing.T) {
		r := testRouter("recruiter-1", domain.RoleRecruiter, func(g *gin.RouterGroup) { NewJobApplicationHandler(g, uc) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="backend-v2-applications.xlsx"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "xlsx-bytes", w.Body.String())
	})

	t.Run("candidates are forbidden", func(t *testing.T) {
		r := testRouter("owner", domain.RoleCandidate, func(g *gin.RouterGroup) { NewJobApplicationHandler(g, uc) })
		w, _ := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("version must be numeric", func(t *testing.T) {
		r := testRouter("recruiter-1", domain.RoleRecruiter, func(g *gin.RouterGroup) { NewJobApplicationHandler(g, uc) })
		w, _ := serve(r, httptest.NewRequest(http.MethodGet, "/v1/job-posts/backend/versions/latest/applications/export", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

type fakeQuestionnaireUC struct {
	domain.QuestionnaireUsecase
	result   *domain.ImportResult
	received []byte
}

func (f *fakeQuestionnaireUC) Import(_ context.Context, _ string, _ *string, workbook []byte) (*domain.ImportResult, error) {
	f.received = workbook
	return f.result, nil
}

func multipartRequest(t *testing.T, path, field, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestQuestionnaireHandler_Import(t *testing.T) {
	t.Run("row errors are returned with 422", func(t *testing.T) {
		uc := &fakeQuestionnaireUC{result: &domain.ImportResult{
			Templates: []domain.QuestionnaireTemplate{},
			Errors:    []domain.ImportRowError{{Row: 4, Message: "unknown scope"}},
		}}
		r := testRouter("recruiter-1", domain.RoleRecruiter, func(g *gin.RouterGroup) { NewQuestionnaireHandler(g, uc) })

		w, body := serve(r, multipartRequest(t, "/v1/questionnaires/import", "file", "import.xlsx", []byte("workbook")))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.False(t, body.Success)
		assert.Contains(t, w.Body.String(), `"row":4`)
		assert.Equal(t, []byte("workbook"), uc.received)
	})

	t.Run("clean import", func(t *testing.T) {
		uc := &fakeQuestionnaireUC{result: &domain.ImportResult{
			Templates: []domain.QuestionnaireTemplate{{Name: "go-quiz"}},
		}}
		r := testRouter("recruiter-1", domain.RoleRecruiter, func(g *gin.RouterGroup) { NewQuestionnaireHandler(g, uc) })

		w, body := serve(r, multipartRequest(t, "/v1/questionnaires/import", "file", "import.xlsx", []byte("workbook")))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
	})

	t.Run("missing file field", func(t *testing.T) {
		uc := &fakeQuestionnaireUC{}
		r := testRouter("recruiter-1", domain.RoleRecruiter, func(g *gin.RouterGroup) { NewQuestionnaireHandler(g, uc) })

		w, _ := serve(r, multipartRequest(t, "/v1/questionnaires/import", "other", "import.xlsx", []byte("workbook")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, uc.received)
	})
}

type fakeSyncUC struct {
	domain.SyncConfigurationUsecase
	targets []string
	got     *domain.SyncMessage
}

func (f *fakeSyncUC) DetermineTargets(_ context.Context, msg *domain.SyncMessage) ([]string, error) {
	f.got = msg
	return f.targets, nil
}

func TestSyncConfigurationHandler_Targets(t *testing.T) {
	body := `{"SyncEventId":"evt-1","EntityType":"JobPost","EntityId":"jp-1","SourceRegion":"EU","ChangeTimestamp":"2024-05-01T10:00:00Z","IsDeleted":false}`

	t.Run("admin gets an empty list rather than null", func(t *testing.T) {
		uc := &fakeSyncUC{}
		r := testRouter("admin-1", domain.RoleAdmin, func(g *gin.RouterGroup) { NewSyncConfigurationHandler(g, uc) })

		req := httptest.NewRequest(http.MethodPost, "/v1/sync/targets", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w, resp := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"data":[]`)
		assert.True(t, resp.Success)
		require.NotNil(t, uc.got)
		assert.Equal(t, "JobPost", uc.got.EntityType)
		assert.Equal(t, "EU", uc.got.SourceRegion)
	})

	t.Run("recruiters are forbidden", func(t *testing.T) {
		uc := &fakeSyncUC{targets: []string{"US"}}
		r := testRouter("recruiter-1", domain.RoleRecruiter, func(g *gin.RouterGroup) { NewSyncConfigurationHandler(g, uc) })

		req := httptest.NewRequest(http.MethodPost, "/v1/sync/targets", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w, _ := serve(r, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Nil(t, uc.got)
	})
}

type fakeHealthUC map[string]string

func (f fakeHealthUC) Check(context.Context) map[string]string { return f }

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r := gin.New()
		NewHealthHandler(r, fakeHealthUC{"status": "ok", "database": "ok"})
		w, body := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
	})

	t.Run("degraded", func(t *testing.T) {
		r := gin.New()
		NewHealthHandler(r, fakeHealthUC{"status": "degraded", "database": "down"})
		w, body := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.False(t, body.Success)
		assert.Contains(t, w.Body.String(), `"database":"down"`)
	})
}
