package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trinhnail/config"
	"trinhnail/database/kv"
	"trinhnail/handlers"
	"trinhnail/middleware"
	"trinhnail/models"
	"trinhnail/routes"
	"trinhnail/services/content"
	"trinhnail/services/media"
	"trinhnail/services/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHost struct {
	url  string
	name string
}

func (h *stubHost) Upload(_ context.Context, _ string, name string) (string, error) {
	h.name = name
	return h.url, nil
}

type testEnv struct {
	router   *gin.Engine
	store    *content.Store
	local    *kv.MemoryStore
	sessions *session.Manager
	cookie   *http.Cookie
}

func newEnv(t *testing.T, quota int, host media.ImageHost) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig.SessionSecret = "test-secret"

	local := kv.NewMemoryStore(quota)
	store := content.NewStore(nil, local, config.ContentDocID, nil)
	require.NoError(t, store.Start(context.Background()))
	t.Cleanup(store.Close)

	sessions := session.NewManager(local, "")
	hb := handlers.NewHandlerBundle(
		handlers.NewContentHandler(store, nil, host),
		handlers.NewAdminHandler(sessions, false),
		handlers.NewBookingHandler(nil),
	)
	r := gin.New()
	routes.RegisterRoutes(r, hb, nil)
	return &testEnv{router: r, store: store, local: local, sessions: sessions}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) json(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	w := e.json(http.MethodPost, "/api/admin/login", gin.H{"password": session.DefaultPassphrase})
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			e.cookie = c
		}
	}
	require.NotNil(t, e.cookie)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func pngUpload(t *testing.T, width, height int) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 7 {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "upload.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(fw, img))
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	env := newEnv(t, 0, nil)
	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetContent(t *testing.T) {
	env := newEnv(t, 0, nil)
	w := env.do(httptest.NewRequest(http.MethodGet, "/api/content", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Content models.SiteContent `json:"content"`
		Status  content.Status     `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.DefaultContent(), resp.Content)
	assert.Equal(t, "local", resp.Status.Backend)
	assert.False(t, resp.Status.Dirty)
}

func TestAdminLoginFlow(t *testing.T) {
	env := newEnv(t, 0, nil)

	w := env.json(http.MethodPost, "/api/admin/login", gin.H{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.json(http.MethodGet, "/api/admin/session", nil)
	assert.Equal(t, false, decode(t, w)["authenticated"])

	env.login(t)
	w = env.json(http.MethodGet, "/api/admin/session", nil)
	assert.Equal(t, true, decode(t, w)["authenticated"])

	w = env.json(http.MethodPost, "/api/admin/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.json(http.MethodGet, "/api/admin/session", nil)
	assert.Equal(t, false, decode(t, w)["authenticated"])

	w = env.json(http.MethodPut, "/api/admin/content/images/heroImage", gin.H{"value": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminLogin_FailedAttemptsKeepNoSessions(t *testing.T) {
	env := newEnv(t, 0, nil)

	for i := 0; i < 100; i++ {
		w := env.json(http.MethodPost, "/api/admin/login", gin.H{"password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	}
	assert.Zero(t, env.sessions.Len())

	env.login(t)
	assert.Equal(t, 1, env.sessions.Len())
}

func TestUpdateImage_RequiresLogin(t *testing.T) {
	env := newEnv(t, 0, nil)
	w := env.json(http.MethodPut, "/api/admin/content/images/heroImage", gin.H{"value": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, models.DefaultContent(), env.store.Snapshot())
}

func TestUpdateImage_JSONValue(t *testing.T) {
	env := newEnv(t, 0, nil)
	env.login(t)

	w := env.json(http.MethodPut, "/api/admin/content/images/service_tattoo", gin.H{"value": "https://cdn.example/t.jpg"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://cdn.example/t.jpg", env.store.Snapshot().ServiceImages.Tattoo)
	assert.Equal(t, models.DefaultContent().ServiceImages.Nail, env.store.Snapshot().ServiceImages.Nail)

	w = env.json(http.MethodPut, "/api/admin/content/images/logo", gin.H{"value": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.json(http.MethodPut, "/api/admin/content/images/heroImage", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateImage_MultipartTranscodes(t *testing.T) {
	env := newEnv(t, 0, nil)
	env.login(t)

	body, ctype := pngUpload(t, 2400, 1000)
	req := httptest.NewRequest(http.MethodPut, "/api/admin/content/images/heroImage", body)
	req.Header.Set("Content-Type", ctype)
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(env.store.Snapshot().HeroImage, "data:image/jpeg;base64,"))
}

func TestUpdateImage_MultipartUsesHost(t *testing.T) {
	host := &stubHost{url: "https://res.example/site-content/storeImage.jpg"}
	env := newEnv(t, 0, host)
	env.login(t)

	body, ctype := pngUpload(t, 40, 30)
	req := httptest.NewRequest(http.MethodPut, "/api/admin/content/images/storeImage", body)
	req.Header.Set("Content-Type", ctype)
	w := env.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "storeImage", host.name)
	assert.Equal(t, host.url, env.store.Snapshot().StoreImage)
}

func TestUpdateImage_UndecodableUpload(t *testing.T) {
	env := newEnv(t, 0, nil)
	env.login(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "notes.txt")
	_, _ = fw.Write([]byte("definitely not an image"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/admin/content/images/heroImage", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := env.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, models.DefaultContent(), env.store.Snapshot())
}

func TestUpdateImage_PersistenceFailureIsWarning(t *testing.T) {
	// Room for the session flag but not for the content snapshot.
	env := newEnv(t, 300, nil)
	env.login(t)

	w := env.json(http.MethodPut, "/api/admin/content/images/heroImage", gin.H{"value": "https://cdn.example/h.jpg"})
	require.Equal(t, http.StatusAccepted, w.Code)
	resp := decode(t, w)
	assert.Equal(t, string(content.QuotaExceeded), resp["kind"])
	assert.NotEmpty(t, resp["warning"])

	assert.Equal(t, "https://cdn.example/h.jpg", env.store.Snapshot().HeroImage)
	assert.True(t, env.store.Status().Dirty)
}

func TestResetContent(t *testing.T) {
	env := newEnv(t, 0, nil)
	env.login(t)

	w := env.json(http.MethodPut, "/api/admin/content/images/heroImage", gin.H{"value": "custom"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.json(http.MethodPost, "/api/admin/content/reset", gin.H{"confirm": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "custom", env.store.Snapshot().HeroImage)

	w = env.json(http.MethodPost, "/api/admin/content/reset", gin.H{"confirm": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DefaultContent(), env.store.Snapshot())

	_, found, _ := env.local.Get(context.Background(), content.SnapshotKey)
	assert.False(t, found)
}

func TestBookingMessage(t *testing.T) {
	env := newEnv(t, 0, nil)

	draft := gin.H{
		"name": "Mai", "phone": "0912", "branch": "Zhongfu",
		"date": "2025-05-01", "time": "08:30",
		"services": []string{"Lash", "Nail", "Lash"},
		"imageCount": 2, "lang": "zh",
	}
	w := env.json(http.MethodPost, "/api/booking/message", draft)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, "early", resp["timeClass"])
	msg := resp["message"].(string)
	assert.Contains(t, msg, "Mai / 0912")
	assert.Contains(t, msg, "⚠️")

	delete(draft, "phone")
	w = env.json(http.MethodPost, "/api/booking/message", draft)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_required", decode(t, w)["kind"])

	draft["phone"] = "0912"
	draft["services"] = []string{}
	w = env.json(http.MethodPost, "/api/booking/message", draft)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "no_service", decode(t, w)["kind"])
}

func TestTimeStatus(t *testing.T) {
	env := newEnv(t, 0, nil)

	cases := map[string]string{"08:59": "early", "09:00": "normal", "19:59": "normal", "20:00": "late", "23:59": "late"}
	for in, want := range cases {
		w := env.json(http.MethodGet, "/api/booking/time-status?time="+in, nil)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, want, resp["timeClass"], in)
		assert.Equal(t, want != "normal", resp["warning"], in)
	}

	w := env.json(http.MethodGet, "/api/booking/time-status?time=25:00", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingOptions(t *testing.T) {
	env := newEnv(t, 0, nil)
	w := env.json(http.MethodGet, "/api/booking/options?lang=vi", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "vi", resp["lang"])
	assert.Len(t, resp["branches"], 2)
	assert.Len(t, resp["services"], 4)
}

func TestContentStream(t *testing.T) {
	env := newEnv(t, 0, nil)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/content/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	nextData := func() string {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if strings.HasPrefix(line, "data:") {
				return line
			}
		}
	}

	// The payload is JSON; compare against a part of the URL with no escaped characters.
	assert.Contains(t, nextData(), "photo-1516975080664")

	_, err = env.store.UpdateImage(context.Background(), models.KeyHeroImage, "https://cdn.example/streamed.jpg")
	require.NoError(t, err)
	assert.Contains(t, nextData(), "https://cdn.example/streamed.jpg")
}
