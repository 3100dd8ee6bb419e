package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiservice/config"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/forms"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/service"
	"taxiservice/storage/sqlite"
)

type renderCall struct {
	name string
	data gin.H
}

// recordingRender remembers which template each response used.
type recordingRender struct {
	render.HTMLRender
	calls []renderCall
}

func (r *recordingRender) Instance(name string, data any) render.Render {
	h, _ := data.(gin.H)
	r.calls = append(r.calls, renderCall{name: name, data: h})
	return r.HTMLRender.Instance(name, data)
}

func (r *recordingRender) last(t *testing.T) renderCall {
	t.Helper()
	require.NotEmpty(t, r.calls, "no template rendered")
	return r.calls[len(r.calls)-1]
}

type testEnv struct {
	router   *gin.Engine
	svc      service.IServiceManager
	sessions *auth.SessionManager
	renders  *recordingRender
}

func newTestEnv(t *testing.T, opts ...func(*Options)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		SQLitePath:     filepath.Join(t.TempDir(), "taxi.db"),
		MigrationsPath: filepath.Join("..", "..", "migrations"),
	}
	log := logger.NewNop()
	stg, err := sqlite.New(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(stg.Close)

	svc := service.New(stg, log)
	sessions := auth.NewSessionManager("test-secret", time.Hour)

	options := Options{Services: svc, Storage: stg, Sessions: sessions, Log: log}
	for _, opt := range opts {
		opt(&options)
	}
	r, err := NewRouter(options)
	require.NoError(t, err)

	rec := &recordingRender{HTMLRender: r.HTMLRender}
	r.HTMLRender = rec

	return &testEnv{router: r, svc: svc, sessions: sessions, renders: rec}
}

func (e *testEnv) do(t *testing.T, method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(t *testing.T, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodGet, target, nil, cookie)
}

func (e *testEnv) createDriver(t *testing.T, username, license string) *models.Driver {
	t.Helper()
	d, err := e.svc.Driver().Create(context.Background(), forms.DriverCreationForm{
		Username:      username,
		Password1:     "testpass123",
		Password2:     "testpass123",
		LicenseNumber: license,
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) login(t *testing.T, d *models.Driver) *http.Cookie {
	t.Helper()
	token, err := e.sessions.Issue(auth.Session{DriverID: d.ID})
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func manufacturerNames(v any) []string {
	var names []string
	for _, m := range v.([]*models.Manufacturer) {
		names = append(names, m.Name)
	}
	return names
}

func carModels(v any) []string {
	var out []string
	for _, c := range v.([]*models.Car) {
		out = append(out, c.Model)
	}
	return out
}

func driverNames(v any) []string {
	var out []string
	for _, d := range v.([]*models.Driver) {
		out = append(out, d.Username)
	}
	return out
}

func TestLoginRequired(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{"/", "/manufacturers/", "/cars/", "/drivers/", "/cars/1/", "/drivers/create/"} {
		t.Run(target, func(t *testing.T) {
			w := env.get(t, target, nil)
			assert.NotEqual(t, http.StatusOK, w.Code)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "/accounts/login/?next="+url.QueryEscape(target), w.Header().Get("Location"))
		})
	}
}

func TestTamperedSessionIsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/drivers/", &http.Cookie{Name: auth.CookieName, Value: "not-a-token"})
	assert.Equal(t, http.StatusFound, w.Code)
	if c := sessionCookie(w); assert.NotNil(t, c) {
		assert.Empty(t, c.Value)
	}
}

func TestManufacturerListSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, m := range []forms.ManufacturerForm{
		{Name: "Audi", Country: "Germany"},
		{Name: "BMW", Country: "Germany"},
		{Name: "Tesla", Country: "USA"},
	} {
		_, err := env.svc.Manufacturer().Create(ctx, m)
		require.NoError(t, err)
	}
	cookie := env.login(t, env.createDriver(t, "test", "ABC12345"))

	w := env.get(t, "/manufacturers/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	call := env.renders.last(t)
	assert.Equal(t, "taxi/manufacturer_list.html", call.name)
	assert.Equal(t, []string{"Audi", "BMW", "Tesla"}, manufacturerNames(call.data["manufacturer_list"]))

	w = env.get(t, "/manufacturers/?name=BMW", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"BMW"}, manufacturerNames(env.renders.last(t).data["manufacturer_list"]))

	w = env.get(t, "/manufacturers/?name=tes", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Tesla"}, manufacturerNames(env.renders.last(t).data["manufacturer_list"]))
	assert.Contains(t, w.Body.String(), "Tesla")
	assert.NotContains(t, w.Body.String(), "Audi")
}

func TestCarListSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	audi, err := env.svc.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: "Audi", Country: "Germany"})
	require.NoError(t, err)
	bmw, err := env.svc.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)
	for _, f := range []forms.CarForm{
		{Model: "q4", ManufacturerID: audi.ID},
		{Model: "m5", ManufacturerID: bmw.ID},
		{Model: "Q7", ManufacturerID: audi.ID},
	} {
		_, err := env.svc.Car().Create(ctx, f)
		require.NoError(t, err)
	}
	cookie := env.login(t, env.createDriver(t, "test", "ABC12345"))

	w := env.get(t, "/cars/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	call := env.renders.last(t)
	assert.Equal(t, "taxi/car_list.html", call.name)
	assert.Equal(t, []string{"q4", "m5", "Q7"}, carModels(call.data["car_list"]))

	w = env.get(t, "/cars/?model=q4", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"q4"}, carModels(env.renders.last(t).data["car_list"]))

	w = env.get(t, "/cars/?model=q", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"q4", "Q7"}, carModels(env.renders.last(t).data["car_list"]))
	assert.NotContains(t, w.Body.String(), "m5")
}

func TestDriverListSearch(t *testing.T) {
	env := newTestEnv(t)
	me := env.createDriver(t, "test", "ABC12345")
	for _, name := range []string{"Driver 1", "Driver 2", "Driver 3"} {
		env.createDriver(t, name, "LIC")
	}
	cookie := env.login(t, me)

	w := env.get(t, "/drivers/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	call := env.renders.last(t)
	assert.Equal(t, "taxi/driver_list.html", call.name)
	assert.Equal(t, []string{"test", "Driver 1", "Driver 2", "Driver 3"}, driverNames(call.data["driver_list"]))

	w = env.get(t, "/drivers/?username="+url.QueryEscape("Driver 1"), cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Driver 1"}, driverNames(env.renders.last(t).data["driver_list"]))

	w = env.get(t, "/drivers/?username=1", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Driver 1"}, driverNames(env.renders.last(t).data["driver_list"]))
	assert.NotContains(t, w.Body.String(), "Driver 2")
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createDriver(t, "test", "ABC12345")

	w := env.get(t, "/accounts/login/?next=/cars/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "registration/login.html", env.renders.last(t).name)

	w = env.do(t, http.MethodPost, "/accounts/login/", url.Values{
		"username": {"test"},
		"password": {"wrong"},
		"next":     {"/cars/"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password.")
	assert.Nil(t, sessionCookie(w))

	w = env.do(t, http.MethodPost, "/accounts/login/", url.Values{
		"username": {"test"},
		"password": {"testpass123"},
		"next":     {"/cars/"},
	}, nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/cars/", w.Header().Get("Location"))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)

	w = env.get(t, "/cars/", cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/accounts/logout/", nil, cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	if c := sessionCookie(w); assert.NotNil(t, c) {
		assert.Empty(t, c.Value)
	}
}

func TestLoginIgnoresForeignNext(t *testing.T) {
	env := newTestEnv(t)
	me := env.createDriver(t, "test", "ABC12345")

	for _, next := range []string{"//evil.example.com/", "/\t/evil.example.com/", "/\n/evil.example.com/"} {
		w := env.do(t, http.MethodPost, "/accounts/login/", url.Values{
			"username": {"test"},
			"password": {"testpass123"},
			"next":     {next},
		}, nil)
		require.Equal(t, http.StatusFound, w.Code, next)
		assert.Equal(t, "/", w.Header().Get("Location"), next)
	}

	// already logged in: the login page redirects straight to next
	w := env.get(t, "/accounts/login/?next="+url.QueryEscape("/\t/evil.example.com/"), env.login(t, me))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/drivers/?username=1", safeNext("/drivers/?username=1"))
	assert.Equal(t, "/", safeNext(""))
	assert.Equal(t, "/", safeNext("https://evil.example.com/"))
	assert.Equal(t, "/", safeNext("//evil.example.com"))
	assert.Equal(t, "/", safeNext(`/\evil.example.com`))
	assert.Equal(t, "/", safeNext("/\t/evil.example.com/"))
	assert.Equal(t, "/", safeNext("/\n/evil.example.com/"))
	assert.Equal(t, "/", safeNext("/\r\n/evil.example.com/"))
	assert.Equal(t, "/", safeNext("/cars/\x7f"))
}

func TestIndexCountsVisits(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Manufacturer().Create(context.Background(), forms.ManufacturerForm{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)
	cookie := env.login(t, env.createDriver(t, "test", "ABC12345"))

	w := env.get(t, "/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	call := env.renders.last(t)
	assert.Equal(t, "taxi/index.html", call.name)
	assert.Equal(t, 1, call.data["num_drivers"])
	assert.Equal(t, 1, call.data["num_manufacturers"])
	assert.Equal(t, 0, call.data["num_cars"])
	assert.Equal(t, 1, call.data["num_visits"])

	cookie = sessionCookie(w)
	require.NotNil(t, cookie)
	w = env.get(t, "/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, env.renders.last(t).data["num_visits"])
}

func TestDriverCreatePost(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, env.createDriver(t, "test", "ABC12345"))

	w := env.do(t, http.MethodPost, "/drivers/create/", url.Values{
		"username":       {"new_driver"},
		"password1":      {"testpass123"},
		"password2":      {"testpass123"},
		"first_name":     {"First"},
		"last_name":      {"Last"},
		"license_number": {"XYZ98765"},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	list, err := env.svc.Driver().List(context.Background(), "new_driver")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "XYZ98765", list[0].LicenseNumber)
	assert.Equal(t, "First", list[0].FirstName)

	w = env.do(t, http.MethodPost, "/drivers/create/", url.Values{
		"username":       {"other"},
		"password1":      {"testpass123"},
		"password2":      {"different123"},
		"license_number": {"XYZ98765"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "taxi/driver_form.html", env.renders.last(t).name)
	assert.Contains(t, w.Body.String(), "The two password fields didn")
	notSaved, err := env.svc.Driver().List(context.Background(), "other")
	require.NoError(t, err)
	assert.Empty(t, notSaved)

	w = env.do(t, http.MethodPost, "/drivers/create/", url.Values{
		"username":       {"new_driver"},
		"password1":      {"testpass123"},
		"password2":      {"testpass123"},
		"license_number": {"XYZ98765"},
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "A user with that username already exists.")
}

func TestManufacturerCrud(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, env.createDriver(t, "test", "ABC12345"))
	ctx := context.Background()

	w := env.do(t, http.MethodPost, "/manufacturers/create/", url.Values{"name": {"BMW"}, "country": {"Germany"}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	w = env.do(t, http.MethodPost, "/manufacturers/create/", url.Values{"name": {"BMW"}, "country": {"Germany"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Manufacturer with this Name already exists.")

	list, err := env.svc.Manufacturer().List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	w = env.do(t, http.MethodPost, "/manufacturers/"+itoa(id)+"/update/", url.Values{"name": {"BMW AG"}, "country": {"Germany"}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	m, err := env.svc.Manufacturer().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "BMW AG", m.Name)

	w = env.get(t, "/manufacturers/"+itoa(id)+"/delete/", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "taxi/manufacturer_confirm_delete.html", env.renders.last(t).name)

	w = env.do(t, http.MethodPost, "/manufacturers/"+itoa(id)+"/delete/", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	count, err := env.svc.Manufacturer().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCarCreateAndToggleAssign(t *testing.T) {
	env := newTestEnv(t)
	me := env.createDriver(t, "test", "ABC12345")
	cookie := env.login(t, me)
	ctx := context.Background()

	m, err := env.svc.Manufacturer().Create(ctx, forms.ManufacturerForm{Name: "Audi", Country: "Germany"})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/cars/create/", url.Values{"model": {"q4"}, "manufacturer": {itoa(m.ID)}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	w = env.do(t, http.MethodPost, "/cars/create/", url.Values{"model": {"q5"}, "manufacturer": {"999"}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Select a valid choice.")

	cars, err := env.svc.Car().List(ctx, "")
	require.NoError(t, err)
	require.Len(t, cars, 1)
	carURL := "/cars/" + itoa(cars[0].ID) + "/"

	w = env.do(t, http.MethodPost, carURL+"toggle-assign/", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, carURL, w.Header().Get("Location"))

	w = env.get(t, carURL, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	call := env.renders.last(t)
	assert.Equal(t, "taxi/car_detail.html", call.name)
	assert.Equal(t, true, call.data["assigned"])
	assert.Contains(t, w.Body.String(), "Delete me from this car")

	w = env.do(t, http.MethodPost, carURL+"toggle-assign/", nil, cookie)
	require.Equal(t, http.StatusFound, w.Code)
	env.get(t, carURL, cookie)
	assert.Equal(t, false, env.renders.last(t).data["assigned"])
}

func TestUnknownObjectIsNotFound(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, env.createDriver(t, "test", "ABC12345"))

	for _, target := range []string{"/cars/42/", "/drivers/42/", "/manufacturers/42/update/", "/cars/abc/"} {
		w := env.get(t, target, cookie)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
		assert.Equal(t, "errors/404.html", env.renders.last(t).name, target)
	}
}

func TestDriverLicenseUpdate(t *testing.T) {
	env := newTestEnv(t)
	me := env.createDriver(t, "test", "ABC12345")
	cookie := env.login(t, me)

	w := env.do(t, http.MethodPost, "/drivers/"+itoa(me.ID)+"/update/", url.Values{"license_number": {""}}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "taxi/driver_license_update.html", env.renders.last(t).name)

	w = env.do(t, http.MethodPost, "/drivers/"+itoa(me.ID)+"/update/", url.Values{"license_number": {"NEW00001"}}, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	w = env.get(t, "/drivers/"+itoa(me.ID)+"/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "NEW00001")
}

func TestAdminRequiresSuperuser(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, env.createDriver(t, "test", "ABC12345"))

	w := env.get(t, "/admin/taxi/driver/", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/accounts/login/"))
}

func TestAdminDriverPagesShowLicenseNumber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin, err := env.svc.Driver().CreateSuperuser(ctx, "admin", "admin@example.com", "adminpass123", "")
	require.NoError(t, err)
	cookie := env.login(t, admin)
	driver := env.createDriver(t, "driver", "ABC12345")

	w := env.get(t, "/admin/taxi/driver/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin/change_list.html", env.renders.last(t).name)
	assert.Contains(t, w.Body.String(), "License number")
	assert.Contains(t, w.Body.String(), driver.LicenseNumber)

	w = env.get(t, "/admin/taxi/driver/"+itoa(driver.ID)+"/change/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin/driver_change_form.html", env.renders.last(t).name)
	assert.Contains(t, w.Body.String(), `name="license_number"`)
	assert.Contains(t, w.Body.String(), driver.LicenseNumber)

	w = env.get(t, "/admin/taxi/driver/add/", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="license_number"`)
}

func TestAdminDriverChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	admin, err := env.svc.Driver().CreateSuperuser(ctx, "admin", "admin@example.com", "adminpass123", "")
	require.NoError(t, err)
	cookie := env.login(t, admin)
	driver := env.createDriver(t, "driver", "ABC12345")

	w := env.do(t, http.MethodPost, "/admin/taxi/driver/"+itoa(driver.ID)+"/change/", url.Values{
		"username":       {"driver"},
		"email":          {"Driver@Example.com"},
		"license_number": {"CHANGED1"},
		"is_active":      {"true"},
	}, cookie)
	require.Equal(t, http.StatusFound, w.Code)

	got, err := env.svc.Driver().Get(ctx, driver.ID)
	require.NoError(t, err)
	assert.Equal(t, "CHANGED1", got.LicenseNumber)
	assert.Equal(t, "driver@example.com", got.Email)
	assert.True(t, got.IsActive)
	assert.False(t, got.IsStaff)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.get(t, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestSessionCookieFlags(t *testing.T) {
	for _, secure := range []bool{false, true} {
		env := newTestEnv(t, func(o *Options) { o.SecureCookies = secure })
		cookie := env.login(t, env.createDriver(t, "test", "ABC12345"))

		w := env.get(t, "/", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		issued := sessionCookie(w)
		require.NotNil(t, issued)
		assert.Equal(t, secure, issued.Secure)
		assert.True(t, issued.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, issued.SameSite)
	}
}
