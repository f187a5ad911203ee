package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"visitlog/internal/models"
	"visitlog/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// loginUser registers a user and issues a session cookie directly
// through the services, skipping the email round-trip.
func loginUser(t *testing.T, authService *services.AuthService, email string) (*models.User, *http.Cookie) {
	user, err := authService.Register(email, "pw123")
	require.NoError(t, err)

	session, err := authService.CreateSession(user.ID)
	require.NoError(t, err)

	return user, &http.Cookie{Name: "session_id", Value: session.Token}
}

func mustDate(t *testing.T, s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func seedCompanies(t *testing.T, db *gorm.DB, names ...string) []models.Company {
	companies := make([]models.Company, 0, len(names))
	for _, name := range names {
		company := models.Company{Name: name}
		require.NoError(t, db.Create(&company).Error)
		companies = append(companies, company)
	}
	return companies
}

func TestVisitRoutes(t *testing.T) {
	cfg, db := setupTestDB(t)
	defer cleanupTestDB(t, cfg, db)

	router := setupTestRouter(cfg, db, services.NewCodeStore(), &fakeMailer{})
	authService := services.NewAuthService(cfg, db)

	seedCompanies(t, db, "Acme Industries", "Northwind Traders", "Globex Corporation")
	user, sessionCookie := loginUser(t, authService, "maud@ex.com")

	t.Run("GET /visits - no session cookie fails closed", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/visits", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Session expired.")
		assert.NotContains(t, w.Body.String(), "Signed in as")
	})

	t.Run("GET /visits - unknown session token fails closed", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/visits", nil)
		req.AddCookie(&http.Cookie{Name: "session_id", Value: "not-a-real-token"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Session expired.")
	})

	t.Run("GET /visits - renders the list for a live session", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/visits", nil)
		req.AddCookie(sessionCookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Signed in as maud@ex.com")
		assert.Contains(t, w.Body.String(), "No visits yet.")
	})

	t.Run("GET /create-visit - renders the company list", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/create-visit", nil)
		req.AddCookie(sessionCookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Acme Industries")
		assert.Contains(t, w.Body.String(), "Globex Corporation")
	})

	t.Run("POST /register-visit - blank report stored as empty string", func(t *testing.T) {
		w := postForm(router, "/register-visit", url.Values{
			"visit_date": {"2026-08-28"},
			"company":    {"3"},
			"report":     {""},
		}, sessionCookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Globex Corporation")

		var visit models.Visit
		require.NoError(t, db.Where("user_id = ?", user.ID).First(&visit).Error)
		assert.Equal(t, uint(3), visit.CompanyID)
		assert.Equal(t, "", visit.Report)
		assert.Equal(t, "2026-08-28", visit.Date.Format("2006-01-02"))
	})

	t.Run("POST /register-visit - invalid date re-renders the form", func(t *testing.T) {
		w := postForm(router, "/register-visit", url.Values{
			"visit_date": {"yesterday"},
			"company":    {"1"},
		}, sessionCookie)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid visit date.")
	})

	t.Run("POST /register-visit - unknown company re-renders the form", func(t *testing.T) {
		var before int64
		db.Model(&models.Visit{}).Count(&before)

		w := postForm(router, "/register-visit", url.Values{
			"visit_date": {"2026-08-28"},
			"company":    {"99"},
		}, sessionCookie)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid company.")

		var after int64
		db.Model(&models.Visit{}).Count(&after)
		assert.Equal(t, before, after)
	})

	t.Run("POST /register-visit - expired session fails closed", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Session{}).
			Where("token = ?", sessionCookie.Value).
			Update("expires_at", time.Now().Add(-time.Hour)).Error)

		w := postForm(router, "/register-visit", url.Values{
			"visit_date": {"2026-08-28"},
			"company":    {"1"},
		}, sessionCookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Session expired.")
	})
}

func TestVisitScope(t *testing.T) {
	cfg, db := setupTestDB(t)
	defer cleanupTestDB(t, cfg, db)

	authService := services.NewAuthService(cfg, db)
	companies := seedCompanies(t, db, "Acme Industries")

	maud, maudCookie := loginUser(t, authService, "maud@ex.com")
	pierre, _ := loginUser(t, authService, "pierre@ex.com")

	visitService := services.NewVisitService(cfg, db)
	_, err := visitService.CreateVisit(maud.ID, companies[0].ID, mustDate(t, "2026-08-01"), "boiler room ok")
	require.NoError(t, err)
	_, err = visitService.CreateVisit(pierre.ID, companies[0].ID, mustDate(t, "2026-08-02"), "roof access blocked")
	require.NoError(t, err)

	t.Run("scope all shows every inspector's visits", func(t *testing.T) {
		cfg.Visits.Scope = "all"
		router := setupTestRouter(cfg, db, services.NewCodeStore(), &fakeMailer{})

		req, _ := http.NewRequest("GET", "/visits", nil)
		req.AddCookie(maudCookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "boiler room ok")
		assert.Contains(t, w.Body.String(), "roof access blocked")
	})

	t.Run("scope mine only shows the authenticated user's visits", func(t *testing.T) {
		cfg.Visits.Scope = "mine"
		router := setupTestRouter(cfg, db, services.NewCodeStore(), &fakeMailer{})

		req, _ := http.NewRequest("GET", "/visits", nil)
		req.AddCookie(maudCookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "boiler room ok")
		assert.NotContains(t, w.Body.String(), "roof access blocked")
	})
}
