package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"linkgate-go/internal/i18n"
	"linkgate-go/internal/middleware"
	"linkgate-go/internal/repository"
	"linkgate-go/internal/service"
	"linkgate-go/pkg/logging"
)

const testDomain = "lg.test"

func TestMain(m *testing.M) {
	logging.Logger = zap.NewNop()
	zap.ReplaceGlobals(zap.NewNop())
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestRouter 按 main.go 的方式组装路由，数据库换成临时 SQLite，缓存关闭
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "handler.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	bundle, err := i18n.InitI18n([]string{
		"../../i18n/en.toml",
		"../../i18n/zh.toml",
	}, "en")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	linkRepo := repository.NewLinkRepo(db)
	analyticsRepo := repository.NewAnalyticsRepo(db)
	domainRepo := repository.NewDomainRepo(db)

	linkService := service.NewLinkService(linkRepo, analyticsRepo, domainRepo, service.NewSlugAllocator(8), nil, testDomain)
	statsService := service.NewStatsService(db, linkRepo, nil)
	domainService := service.NewLinkDomainService(domainRepo)

	shortLinkHandler := NewShortLinkHandler(linkService, statsService)
	domainHandler := NewLinkDomainHandler(domainService)
	redirectHandler := NewRedirectHandler(linkService, testDomain)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.CorsMiddleware())
	r.Use(middleware.I18nMiddleware(bundle))

	api := r.Group("/api")
	{
		api.POST("/links", shortLinkHandler.Create)
		api.GET("/links", shortLinkHandler.List)
		api.POST("/links/bulk", shortLinkHandler.BulkImport)
		api.GET("/links/export", shortLinkHandler.Export)
		api.GET("/links/:id/stats", shortLinkHandler.Stats)

		api.POST("/domains", domainHandler.Create)
		api.GET("/domains", domainHandler.List)
		api.DELETE("/domains/:id", domainHandler.Delete)
	}

	r.Use(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		redirectHandler.Redirect(c)
	})

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewBuffer(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Host = testDomain
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createLink(t *testing.T, r *gin.Engine, body map[string]any) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/links", body)
	if w.Code != http.StatusOK {
		t.Fatalf("create: status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Data struct {
			Link struct {
				Slug string `json:"slug"`
			} `json:"link"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Data.Link.Slug == "" {
		t.Fatalf("create: no slug in %s", w.Body.String())
	}
	return out.Data.Link.Slug
}

func TestCreateAndRedirect(t *testing.T) {
	r := newTestRouter(t)

	slug := createLink(t, r, map[string]any{"targetUrl": "https://go.dev/doc"})

	w := doJSON(t, r, http.MethodGet, "/"+slug, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("redirect: status=%d body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "https://go.dev/doc" {
		t.Fatalf("Location = %q", loc)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Fatalf("Cache-Control = %q", cc)
	}
}

func TestRedirectNotFound(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "does not exist") {
		t.Fatalf("want localized not-found message, got %s", w.Body.String())
	}
}

func TestRedirectPasswordGate(t *testing.T) {
	r := newTestRouter(t)

	slug := createLink(t, r, map[string]any{"targetUrl": "https://go.dev/", "password": "s3cret"})

	if w := doJSON(t, r, http.MethodGet, "/"+slug, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no password: status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/"+slug+"?pw=wrong", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status=%d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/"+slug+"?pw=s3cret", nil); w.Code != http.StatusFound {
		t.Fatalf("correct password: status=%d", w.Code)
	}
}

func TestCreateDuplicateCustomSlug(t *testing.T) {
	r := newTestRouter(t)

	createLink(t, r, map[string]any{"targetUrl": "https://go.dev/", "slug": "docs"})

	w := doJSON(t, r, http.MethodPost, "/api/links", map[string]any{"targetUrl": "https://go.dev/blog", "slug": "docs"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestCreateInvalidURL(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/links", map[string]any{"targetUrl": "not a url"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid url: status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestBulkImportEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/links/bulk", map[string]any{
		"targetUrls": []string{"https://go.dev/", "not a url", "https://pkg.go.dev/"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("bulk: status=%d body=%s", w.Code, w.Body.String())
	}

	var out struct {
		Data []struct {
			Index   int  `json:"index"`
			Success bool `json:"success"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Data) != 3 {
		t.Fatalf("results = %d, want 3", len(out.Data))
	}
	wantSuccess := []bool{true, false, true}
	for i, row := range out.Data {
		if row.Index != i || row.Success != wantSuccess[i] {
			t.Fatalf("row %d = %+v", i, row)
		}
	}
}

func TestExportCSV(t *testing.T) {
	r := newTestRouter(t)

	createLink(t, r, map[string]any{"targetUrl": "https://go.dev/", "slug": "exported"})

	w := doJSON(t, r, http.MethodGet, "/api/links/export?format=csv", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "id,domain,slug,") {
		t.Fatalf("missing CSV header: %s", body)
	}
	if !strings.Contains(body, "exported") {
		t.Fatalf("exported row missing: %s", body)
	}
}

func TestDomainRegistry(t *testing.T) {
	r := newTestRouter(t)

	// 未登记域名下建链被拒
	w := doJSON(t, r, http.MethodPost, "/api/links", map[string]any{"targetUrl": "https://go.dev/", "domain": "go.corp.test"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unregistered domain: status=%d body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodPost, "/api/domains", map[string]any{"domain": "go.corp.test"}); w.Code != http.StatusOK {
		t.Fatalf("register domain: status=%d body=%s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodPost, "/api/links", map[string]any{"targetUrl": "https://go.dev/", "domain": "go.corp.test"}); w.Code != http.StatusOK {
		t.Fatalf("create under registered domain: status=%d body=%s", w.Code, w.Body.String())
	}
}
