package user

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	usersvc "estate-backend/internal/application/user"
	"estate-backend/internal/infrastructure/database"
	"estate-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserTest(t *testing.T) (*Handlers, *redis.Client) {
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Handlers{Service: &usersvc.Service{DB: db}, Rdb: rdb}, rdb
}

func postJSON(app *fiber.App, path string, body interface{}) (*fiber.Map, int, error) {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		return nil, 0, err
	}
	raw, _ := io.ReadAll(resp.Body)
	var out fiber.Map
	_ = json.Unmarshal(raw, &out)
	return &out, resp.StatusCode, nil
}

var registerBody = map[string]string{
	"user_name": "buyer1",
	"email":     "buyer@test.com",
	"password":  "Pass1!word",
	"fullname":  "Jane Buyer",
}

func TestRegister_CreatesUserAndSession(t *testing.T) {
	h, rdb := setupUserTest(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	out, code, err := postJSON(app, "/register", registerBody)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, code)
	data := (*out)["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, constants.User, user["role"])
	assert.NotContains(t, user, "password_hash")

	keys, err := rdb.Keys(context.Background(), "user_sessions:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)

	_, code, err = postJSON(app, "/register", registerBody)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestRegister_Validation(t *testing.T) {
	h, _ := setupUserTest(t)
	app := fiber.New()
	app.Post("/register", h.Register)

	_, code, err := postJSON(app, "/register", map[string]string{"email": "x@y.com"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, code)

	bad := map[string]string{}
	for k, v := range registerBody {
		bad[k] = v
	}
	bad["password"] = "short"
	out, code, err := postJSON(app, "/register", bad)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, usersvc.ErrInvalidPassword.Error(), (*out)["error"].(map[string]interface{})["message"])
}

func TestCreateStaff(t *testing.T) {
	h, _ := setupUserTest(t)
	app := fiber.New()
	app.Post("/users", h.CreateStaff)

	body := map[string]string{"role": constants.Agent}
	for k, v := range registerBody {
		body[k] = v
	}
	out, code, err := postJSON(app, "/users", body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, code)
	user := (*out)["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, constants.Agent, user["role"])

	body["role"] = "viewer"
	body["email"] = "other@test.com"
	body["user_name"] = "other"
	_, code, err = postJSON(app, "/users", body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestProfile(t *testing.T) {
	h, _ := setupUserTest(t)
	u, err := h.Service.Register(context.Background(), usersvc.RegisterInput{
		UserName: "buyer1", Email: "buyer@test.com", Password: "Pass1!word", Fullname: "Jane Buyer",
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/me/:id", func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{"user_id": c.Params("id"), "role": constants.User})
		return h.Profile(c)
	})
	app.Get("/anon", h.Profile)

	resp, err := app.Test(httptest.NewRequest("GET", "/me/"+u.UserID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me/"+uuid.New().String(), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/anon", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
