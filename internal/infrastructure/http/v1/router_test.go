package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/core/apperror"
	appctx "hermes/internal/core/context"
	"hermes/internal/core/guard"
	"hermes/internal/domain/auth"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/directory/memory"
	"hermes/pkg/logger"
)

var errDirectoryDown = errors.New("directory down")

// flakyOrgs fails FindByID with an unclassified error.
type flakyOrgs struct {
	organization.Repository
}

func (flakyOrgs) FindByID(context.Context, string) (*organization.Organization, error) {
	return nil, errDirectoryDown
}

// flakyEmployees fails every lookup with an unclassified error.
type flakyEmployees struct {
	employee.Repository
}

func (flakyEmployees) FindByID(context.Context, *organization.Organization, string) (*employee.Employee, error) {
	return nil, errDirectoryDown
}

type body struct {
	Data          json.RawMessage `json:"data"`
	Notifications []string        `json:"notifications"`
	Code          string          `json:"code"`
	Message       string          `json:"message"`
}

type fixture struct {
	t      *testing.T
	router *gin.Engine
}

func newFixture(t *testing.T, mutate func(*RouterConfig)) *fixture {
	t.Helper()
	dir := memory.New()
	cfg := RouterConfig{
		Organizations: dir.Organizations(),
		Employees:     dir.Employees(),
		Backend:       "memory",
		Logger:        logger.Nop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return &fixture{t: t, router: NewRouter(cfg)}
}

func (f *fixture) do(method, path string, payload any) (*httptest.ResponseRecorder, body) {
	f.t.Helper()
	var reader *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var b body
	if rec.Body.Len() > 0 {
		require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), &b), rec.Body.String())
	}
	return rec, b
}

func (f *fixture) createOrg(name string) string {
	f.t.Helper()
	rec, b := f.do(http.MethodPost, "/api/v1/organizations", map[string]any{"name": name})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	var org struct {
		ID string `json:"id"`
	}
	require.NoError(f.t, json.Unmarshal(b.Data, &org))
	return org.ID
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)
	rec, _ := f.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errDirectoryDown }

func TestHealth_NotReady(t *testing.T) {
	f := newFixture(t, func(cfg *RouterConfig) { cfg.Pinger = downPinger{} })
	rec, _ := f.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestOrganizations_CRUD(t *testing.T) {
	f := newFixture(t, nil)
	id := f.createOrg("Acme")
	f.createOrg("Beta")

	rec, b := f.do(http.MethodGet, "/api/v1/organizations/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, b.Notifications)
	assert.NotNil(t, b.Notifications, "notifications is always an array")

	rec, b = f.do(http.MethodGet, "/api/v1/organizations?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items      []map[string]any `json:"items"`
		TotalCount int              `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(b.Data, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 2, list.TotalCount)

	rec, b = f.do(http.MethodPut, "/api/v1/organizations/"+id, map[string]any{"name": "Acme Corp"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(b.Data), `"path":"/Acme Corp"`)

	rec, _ = f.do(http.MethodDelete, "/api/v1/organizations/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, b = f.do(http.MethodGet, "/api/v1/organizations/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperror.CodeNotFound, b.Code)
	assert.Empty(t, b.Notifications, "not found is silent")
}

func TestOrganizations_ConflictIsNotified(t *testing.T) {
	f := newFixture(t, nil)
	f.createOrg("Acme")

	rec, b := f.do(http.MethodPost, "/api/v1/organizations", map[string]any{"name": "Acme"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, apperror.CodeOperationFailed, b.Code)
	assert.Equal(t, []string{"A conflict has occurred. Top level group named 'Acme' already exists."}, b.Notifications)
}

func TestOrganizations_Validation(t *testing.T) {
	f := newFixture(t, nil)

	rec, b := f.do(http.MethodPost, "/api/v1/organizations", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperror.CodeValidation, b.Code)

	rec, _ = f.do(http.MethodGet, "/api/v1/organizations?limit=1000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrganizations_FailedLookupDegradesToNotFound(t *testing.T) {
	f := newFixture(t, func(cfg *RouterConfig) {
		cfg.Organizations = flakyOrgs{Repository: cfg.Organizations}
	})

	rec, b := f.do(http.MethodGet, "/api/v1/organizations/x", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{guard.FailureMessage}, b.Notifications)
}

func TestEmployees_CRUD(t *testing.T) {
	f := newFixture(t, nil)
	orgID := f.createOrg("Acme")
	base := "/api/v1/organizations/" + orgID + "/employees"

	rec, b := f.do(http.MethodPost, base, map[string]any{
		"username": "JDoe", "email": "jdoe@acme.test", "firstName": "John", "lastName": "Doe",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var emp struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		FullName string `json:"fullName"`
	}
	require.NoError(t, json.Unmarshal(b.Data, &emp))
	assert.Equal(t, "jdoe", emp.Username)
	assert.Equal(t, "John Doe", emp.FullName)

	rec, _ = f.do(http.MethodGet, base+"/"+emp.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, b = f.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(b.Data), `"totalCount":1`)

	enabled := false
	rec, b = f.do(http.MethodPut, base+"/"+emp.ID, map[string]any{"firstName": "Jane", "enabled": enabled})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(b.Data), `"enabled":false`)

	rec, _ = f.do(http.MethodDelete, base+"/"+emp.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, b = f.do(http.MethodGet, base+"/"+emp.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperror.CodeResourceNotFound, b.Code)
	assert.Empty(t, b.Notifications)
}

func TestEmployees_UnknownOrganization(t *testing.T) {
	f := newFixture(t, nil)
	rec, b := f.do(http.MethodGet, "/api/v1/organizations/missing/employees", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperror.CodeNotFound, b.Code)
}

func TestEmployees_DuplicateUsername(t *testing.T) {
	f := newFixture(t, nil)
	base := "/api/v1/organizations/" + f.createOrg("Acme") + "/employees"

	rec, _ := f.do(http.MethodPost, base, map[string]any{"username": "jdoe"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, b := f.do(http.MethodPost, base, map[string]any{"username": "jdoe"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []string{"A conflict has occurred. User exists with same username"}, b.Notifications)
}

func TestEmployees_FailureEscalatesToInternal(t *testing.T) {
	f := newFixture(t, func(cfg *RouterConfig) {
		cfg.Employees = flakyEmployees{Repository: cfg.Employees}
	})
	base := "/api/v1/organizations/" + f.createOrg("Acme") + "/employees"

	rec, b := f.do(http.MethodGet, base+"/e1", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeInternal, b.Code)
	assert.Equal(t, []string{guard.FailureMessage}, b.Notifications)
}

func TestRecovery_MissingSinkIsA500(t *testing.T) {
	dir := memory.New()
	f := newFixture(t, nil)
	f.router.GET("/broken", func(c *gin.Context) {
		organization.NewOperations(dir.Organizations(), nil).Count(c.Request.Context())
	})

	rec, b := f.do(http.MethodGet, "/broken", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeInternal, b.Code)
	assert.Empty(t, b.Notifications)
}

type staticValidator struct{}

func (staticValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	switch token {
	case "good":
		return &appctx.UserContext{UserID: "u1", Realm: "acme"}, nil
	case "editor":
		return &appctx.UserContext{UserID: "u2", Realm: "acme", Roles: []string{auth.RoleEditor}}, nil
	case "admin":
		return &appctx.UserContext{UserID: "u3", Realm: "acme", IsAdmin: true}, nil
	}
	return nil, errors.New("bad token")
}

func (f *fixture) doAs(token, method, path string, payload any) (*httptest.ResponseRecorder, body) {
	f.t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(f.t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var b body
	if rec.Body.Len() > 0 {
		require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), &b))
	}
	return rec, b
}

func TestAuth(t *testing.T) {
	f := newFixture(t, func(cfg *RouterConfig) { cfg.JWTValidator = staticValidator{} })

	rec, b := f.do(http.MethodGet, "/api/v1/organizations", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperror.CodeUnauthorized, b.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations", nil)
	req.Header.Set("Authorization", "Bearer good")
	ok := httptest.NewRecorder()
	f.router.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)

	rec, _ = f.do(http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "health stays open")
}

func TestAuth_MutationsNeedWriteRole(t *testing.T) {
	f := newFixture(t, func(cfg *RouterConfig) { cfg.JWTValidator = staticValidator{} })

	rec, b := f.doAs("good", http.MethodPost, "/api/v1/organizations", map[string]any{"name": "Acme"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apperror.CodeForbidden, b.Code)

	rec, _ = f.doAs("editor", http.MethodPost, "/api/v1/organizations", map[string]any{"name": "Acme"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = f.doAs("admin", http.MethodPost, "/api/v1/organizations", map[string]any{"name": "Globex"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, b = f.doAs("good", http.MethodGet, "/api/v1/organizations", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "reads need no write role")
	assert.Contains(t, string(b.Data), "Globex")
}
