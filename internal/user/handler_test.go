// AngelaMos | 2026
// handler_test.go

package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/servicios-api/internal/core"
	"github.com/carterperez-dev/servicios-api/internal/middleware"
)

// tokenAsID treats the bearer token itself as the user id.
type tokenAsID struct{}

func (tokenAsID) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	return &middleware.AccessTokenClaims{UserID: token}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc := NewService(newMemoryRepo())
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		h.RegisterRoutes(r, middleware.Authenticator(tokenAsID{}, svc))
	})
	return r, svc
}

func do(
	t *testing.T,
	router http.Handler,
	method, path, token, body string,
) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

const anaBody = `{"nombre":"Ana","email":"ana@x.com","password":"123456","rol":"oferente"}`

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, env := do(t, router, http.MethodPost, "/api/users", "", anaBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var data struct {
		User map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ana@x.com", data.User["email"])
	assert.NotContains(t, data.User, "password")
	assert.NotContains(t, data.User, "passwordHash")
	assert.NotContains(t, data.User, "ubicacion")

	rec, env = do(t, router, http.MethodPost, "/api/users", "", anaBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "email ya está registrado")
}

func TestRegisterEndpointValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{}`},
		{"bad role", `{"nombre":"A","email":"a@x.com","password":"123456","rol":"admin"}`},
		{"short password", `{"nombre":"A","email":"a@x.com","password":"123","rol":"oferente"}`},
		{"bad email", `{"nombre":"A","email":"nope","password":"123456","rol":"oferente"}`},
		{"bad phone", `{"nombre":"A","email":"a@x.com","password":"123456","rol":"oferente","telefono":"xx"}`},
		{"one coordinate", `{"nombre":"A","email":"a@x.com","password":"123456","rol":"oferente","ubicacion":{"coordinates":[1]}}`},
		{"malformed json", `{"nombre":`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := do(t, router, http.MethodPost, "/api/users", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestLocationRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"nombre":"Luis","email":"luis@x.com","password":"123456","rol":"solicitante",
		"ubicacion":{"type":"Point","coordinates":[-99.1332,19.4326]}}`
	rec, env := do(t, router, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		User UserResponse `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = do(t, router, http.MethodGet, "/api/users/"+created.User.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, map[string]any{
		"type":        "Point",
		"coordinates": []any{-99.1332, 19.4326},
	}, fetched["ubicacion"])
}

func TestGetUserNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec, _ := do(t, router, http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000000", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/users/garbage", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUsersEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		body := strings.Replace(anaBody, "ana@x.com", email, 1)
		rec, _ := do(t, router, http.MethodPost, "/api/users", "", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := do(t, router, http.MethodGet, "/api/users?page=2&limit=2&rol=oferente", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list UserListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Users, 1)
	assert.Equal(t, core.Pagination{
		Page:        2,
		TotalPages:  2,
		Total:       3,
		Limit:       2,
		HasNext:     false,
		HasPrevious: true,
	}, list.Pagination)

	rec, _ = do(t, router, http.MethodGet, "/api/users?ubicacion=200,0", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, router, http.MethodGet, "/api/users?rol=admin", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)
	ana := registerAna(t, svc)

	rec, _ := do(t, router, http.MethodPut, "/api/users/"+ana.ID, "", `{"nombre":"X"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := svc.Register(context.Background(), CreateUserRequest{
		Name: "Beto", Email: "beto@x.com", Password: "123456", Role: RoleRequester,
	})
	require.NoError(t, err)

	rec, _ = do(t, router, http.MethodPut, "/api/users/"+ana.ID, other.ID, `{"nombre":"X"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := do(t, router, http.MethodPut, "/api/users/"+ana.ID, ana.ID,
		`{"nombre":"Ana B","password":"hijacked","habilidades":["  limpieza "]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Ana B", updated.Name)
	assert.Equal(t, []string{"limpieza"}, updated.Skills)

	stored, err := svc.GetUser(context.Background(), ana.ID)
	require.NoError(t, err)
	ok, err := core.VerifyPassword("123456", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok, "password must not change through the profile endpoint")

	rec, env = do(t, router, http.MethodPut, "/api/users/"+ana.ID, ana.ID, `{"email":"beto@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Errors, "email ya está registrado")
}

func TestChangePasswordEndpoint(t *testing.T) {
	router, svc := newTestRouter(t)
	ana := registerAna(t, svc)
	path := "/api/users/" + ana.ID + "/password"

	rec, _ := do(t, router, http.MethodPut, path, ana.ID, `{"currentPassword":"123456"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, router, http.MethodPut, path, ana.ID,
		`{"currentPassword":"nope","newPassword":"abcdefg"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "La contraseña actual es incorrecta", env.Message)

	rec, env = do(t, router, http.MethodPut, path, ana.ID,
		`{"currentPassword":"123456","newPassword":"abcdefg"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}
