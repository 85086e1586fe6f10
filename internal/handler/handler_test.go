package handler

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/nastrosite/internal/db"
	"github.com/nastrosite/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// captureRender records the template name and payload of the last render so
// tests can assert on page data without parsing HTML.
type captureRender struct {
	lastName string
	lastData gin.H
}

type captureInstance struct{}

func (r *captureRender) Instance(name string, data interface{}) render.Render {
	r.lastName = name
	if h, ok := data.(gin.H); ok {
		r.lastData = h
	}
	return &captureInstance{}
}

func (r *captureInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *captureInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.UserRole{}, &db.Project{}, &db.ProjectImage{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return gdb
}

func newTestAPI(t *testing.T, gdb *gorm.DB, uploadDir string) *API {
	t.Helper()

	return NewAPI(
		gdb,
		service.NewProjectService(gdb),
		service.NewAuthService(gdb, ""),
		service.NewContactService("https://relay.example/submit"),
		service.NewStorageService(uploadDir, "/uploads"),
	)
}

// newTestRouter wires the full route table around a capturing HTML render.
func newTestRouter(api *API) (*gin.Engine, *captureRender) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	capture := &captureRender{}
	r.HTMLRender = capture
	r.Use(sessions.Sessions("nastro_session", cookie.NewStore([]byte("test-secret"))))

	r.GET("/", api.ShowHome)
	r.GET("/sobre", api.ShowAbout)
	r.GET("/projetos", api.ShowProjects)
	r.GET("/projeto/:id", api.ShowProjectDetail)
	r.GET("/contato", api.ShowContactForm)
	r.POST("/contato", api.SubmitContact)
	r.GET("/obrigado", api.ShowThankYou)
	r.GET("/login", api.ShowLoginPage)
	r.POST("/login", api.Login)
	r.GET("/logout", api.Logout)

	admin := r.Group("/admin")
	admin.Use(api.AuthRequired(), api.AdminRequired())
	{
		admin.GET("", api.ShowAdmin)
		adminAPI := admin.Group("/api")
		{
			adminAPI.GET("/projects", api.ListProjects)
			adminAPI.GET("/projects/:id", api.GetProject)
			adminAPI.POST("/projects", api.CreateProject)
			adminAPI.POST("/projects/:id", api.UpdateProject)
			adminAPI.DELETE("/projects/:id", api.DeleteProject)
			adminAPI.DELETE("/projects/:id/images/:imageId", api.DeleteProjectImage)
			adminAPI.POST("/upload", api.UploadImage)
		}
	}

	r.NoRoute(api.NotFound)
	return r, capture
}

func seedAdminUser(t *testing.T, gdb *gorm.DB, email, password string) db.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := db.User{Email: email, Password: string(hashed)}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	if err := gdb.Create(&db.UserRole{UserID: user.ID, Role: db.RoleAdmin}).Error; err != nil {
		t.Fatalf("failed to seed role: %v", err)
	}
	return user
}

// loginAs performs the login form flow and returns the session cookies.
func loginAs(t *testing.T, router *gin.Engine, email, password string) []*http.Cookie {
	t.Helper()

	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("expected login redirect, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/admin" {
		t.Fatalf("expected redirect to /admin, got %q", loc)
	}

	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie after login")
	}
	return cookies
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 110, B: 100, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

type formFile struct {
	field    string
	filename string
	mime     string
	data     []byte
}

func buildMultipartForm(t *testing.T, fields map[string]string, files []formFile) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %q: %v", key, err)
		}
	}

	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.field, file.filename))
		header.Set("Content-Type", file.mime)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}

	writer.Close()
	return body, writer.FormDataContentType()
}

func doRequest(router *gin.Engine, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
