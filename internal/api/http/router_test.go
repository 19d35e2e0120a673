package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicworks/waste-complaints/internal/api/dto"
	"github.com/civicworks/waste-complaints/internal/api/http/handlers"
	"github.com/civicworks/waste-complaints/internal/auth"
	"github.com/civicworks/waste-complaints/internal/config"
	"github.com/civicworks/waste-complaints/internal/events"
	"github.com/civicworks/waste-complaints/internal/observability"
	"github.com/civicworks/waste-complaints/internal/persistence"
	"github.com/civicworks/waste-complaints/internal/repository"
	"github.com/civicworks/waste-complaints/internal/service"
	"github.com/civicworks/waste-complaints/internal/session"
)

const testCookieName = "waste_session"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := config.Config{
		App:     config.AppConfig{Name: "waste-complaint-service", Version: "test"},
		Auth:    config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Session: config.SessionConfig{Backend: "memory", CookieName: testCookieName, TTLMinutes: 60},
	}

	memory := repository.NewMemory()
	sessions := session.NewMemoryStore(time.Hour)
	dispatcher := events.NewInMemoryDispatcher()

	accountService := service.NewAccountService(cfg, memory.Accounts(), sessions)
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		AccountRepo:   memory.Accounts(),
		ComplaintRepo: memory.Complaints(),
		Dispatcher:    dispatcher,
	})
	regionService := service.NewRegionService(memory.Complaints())

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), time.Minute)
	RegisterRoutes(app, RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, &persistence.Postgres{}, &persistence.Redis{}),
		Pages:             handlers.NewPagesHandler(),
		Accounts:          handlers.NewAccountsHandler(accountService, cfg.Session),
		Complaints:        handlers.NewComplaintsHandler(complaintService),
		Staff:             handlers.NewStaffHandler(complaintService, regionService),
		SessionMiddleware: auth.NewSessionMiddleware(sessions, cfg.Session.CookieName),
	})
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, values url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func getPath(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func signup(t *testing.T, app *fiber.App, email, credential, region, role string) {
	t.Helper()
	resp := postForm(t, app, "/signup", url.Values{
		"email":       {email},
		"credential":  {credential},
		"region_code": {region},
		"role":        {role},
	}, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/loginForm", resp.Header.Get("Location"))
}

func signin(t *testing.T, app *fiber.App, email, credential, role, wantLocation string) *http.Cookie {
	t.Helper()
	resp := postForm(t, app, "/signin", url.Values{
		"email":      {email},
		"credential": {credential},
		"role":       {role},
	}, nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, wantLocation, resp.Header.Get("Location"))

	for _, cookie := range resp.Cookies() {
		if cookie.Name == testCookieName {
			require.NotEmpty(t, cookie.Value)
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func decodeComplaints(t *testing.T, resp *http.Response) []dto.ComplaintResponse {
	t.Helper()
	var body struct {
		Data []dto.ComplaintResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Data
}

func TestSignupDuplicateConflict(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@x.com", "secret", "100", "customer")

	resp := postForm(t, app, "/signup", url.Values{
		"email":       {"a@x.com"},
		"credential":  {"other"},
		"region_code": {"200"},
		"role":        {"customer"},
	}, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSignupPreservesEarlierAccounts(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@x.com", "secret", "100", "customer")
	signup(t, app, "staff@city.gov", "secret", "100", "municipal_staff")

	// the first account must survive later requests reusing the same
	// transport buffers
	signin(t, app, "a@x.com", "secret", "customer", "/index")
	signin(t, app, "staff@city.gov", "secret", "municipal_staff", "/mcindex")
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	app := newTestApp(t)
	resp := postForm(t, app, "/signup", url.Values{
		"email":       {"a@x.com"},
		"credential":  {"secret"},
		"region_code": {"100"},
		"role":        {"mayor"},
	}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSigninInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@x.com", "secret", "100", "customer")

	resp := postForm(t, app, "/signin", url.Values{
		"email":      {"a@x.com"},
		"credential": {"wrong"},
		"role":       {"customer"},
	}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRedirectWithoutSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/index", "/blog", "/fileComplaint", "/mcindex", "/mccomplaints"} {
		resp := getPath(t, app, path, nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		require.Equal(t, "/loginForm", resp.Header.Get("Location"), path)
	}
}

func TestRoleMismatchRedirectsToUnauthorized(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@x.com", "secret", "100", "customer")
	cookie := signin(t, app, "a@x.com", "secret", "customer", "/index")

	for _, path := range []string{"/mcindex", "/mcblog", "/mccontact", "/mccomplaints"} {
		resp := getPath(t, app, path, cookie)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		require.Equal(t, "/unauthorized", resp.Header.Get("Location"), path)
	}
}

func TestComplaintLifecycleAcrossRoles(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@x.com", "secret", "100", "customer")
	signup(t, app, "staff@city.gov", "secret", "100", "municipal_staff")
	signup(t, app, "staff@other.gov", "secret", "200", "municipal_staff")

	customer := signin(t, app, "a@x.com", "secret", "customer", "/index")

	resp := postForm(t, app, "/registerComplain", url.Values{
		"title":       {"pothole"},
		"description": {"near gate 3"},
	}, customer)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/fileComplaint", resp.Header.Get("Location"))

	resp = getPath(t, app, "/blog", customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	owned := decodeComplaints(t, resp)
	require.Len(t, owned, 1)
	require.Equal(t, "pothole", owned[0].Title)
	require.Equal(t, "submitted", string(owned[0].Status))
	complaintID := owned[0].ID

	staff := signin(t, app, "staff@city.gov", "secret", "municipal_staff", "/mcindex")

	resp = getPath(t, app, "/mccomplaints", staff)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	regional := decodeComplaints(t, resp)
	require.Len(t, regional, 1)
	require.Equal(t, complaintID, regional[0].ID)

	// a staff member from another region sees nothing and cannot update
	otherStaff := signin(t, app, "staff@other.gov", "secret", "municipal_staff", "/mcindex")
	resp = getPath(t, app, "/mccomplaints", otherStaff)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, decodeComplaints(t, resp))

	resp = postForm(t, app, "/updateStatus", url.Values{
		"complaintId": {complaintID},
		"status":      {"resolved"},
	}, otherStaff)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = postForm(t, app, "/updateStatus", url.Values{
		"complaintId": {complaintID},
		"status":      {"resolved"},
	}, staff)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/mccomplaints", resp.Header.Get("Location"))

	resp = getPath(t, app, "/mccomplaints", staff)
	regional = decodeComplaints(t, resp)
	require.Len(t, regional, 1)
	require.Equal(t, "resolved", string(regional[0].Status))
}

func TestUpdateStatusUnknownComplaint(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "staff@city.gov", "secret", "100", "municipal_staff")
	staff := signin(t, app, "staff@city.gov", "secret", "municipal_staff", "/mcindex")

	resp := postForm(t, app, "/updateStatus", url.Values{
		"complaintId": {"no-such-id"},
		"status":      {"resolved"},
	}, staff)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateStatusRejectsUnknownLabel(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "staff@city.gov", "secret", "100", "municipal_staff")
	staff := signin(t, app, "staff@city.gov", "secret", "municipal_staff", "/mcindex")

	resp := postForm(t, app, "/updateStatus", url.Values{
		"complaintId": {"whatever"},
		"status":      {"vaporized"},
	}, staff)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutIdempotent(t *testing.T) {
	app := newTestApp(t)
	signup(t, app, "a@x.com", "secret", "100", "customer")
	cookie := signin(t, app, "a@x.com", "secret", "customer", "/index")

	resp := getPath(t, app, "/logout", cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/loginForm", resp.Header.Get("Location"))

	// the session is gone; the stale cookie now behaves like no session
	resp = getPath(t, app, "/blog", cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/loginForm", resp.Header.Get("Location"))

	resp = getPath(t, app, "/logout", cookie)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/loginForm", resp.Header.Get("Location"))
}

func TestUnknownPathIs404(t *testing.T) {
	app := newTestApp(t)
	resp := getPath(t, app, "/no-such-page", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthLive(t *testing.T) {
	app := newTestApp(t)
	resp := getPath(t, app, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
