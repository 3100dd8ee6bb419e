package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxiservice/pkg/auth"
	"taxiservice/pkg/logger"
	"taxiservice/service"
	"taxiservice/storage"
)

type Options struct {
	Services      service.IServiceManager
	Storage       storage.IStorage
	Sessions      *auth.SessionManager
	Log           logger.ILogger
	SecureCookies bool
}

type Handler struct {
	svc           service.IServiceManager
	stg           storage.IStorage
	sessions      *auth.SessionManager
	log           logger.ILogger
	secureCookies bool
}

func NewRouter(opts Options) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		svc:           opts.Services,
		stg:           opts.Storage,
		sessions:      opts.Sessions,
		log:           opts.Log,
		secureCookies: opts.SecureCookies,
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), requestID(), requestLogger(h.log), h.loadSession())
	r.NoRoute(h.notFound)

	r.GET("/health", h.Health)

	accounts := r.Group("/accounts")
	{
		accounts.GET("/login/", h.LoginPage)
		accounts.POST("/login/", h.Login)
		accounts.POST("/logout/", h.Logout)
	}

	taxi := r.Group("/", loginRequired())
	{
		taxi.GET("/", h.Index)

		taxi.GET("/manufacturers/", h.ManufacturerList)
		taxi.GET("/manufacturers/create/", h.ManufacturerCreatePage)
		taxi.POST("/manufacturers/create/", h.ManufacturerCreate)
		taxi.GET("/manufacturers/:id/update/", h.ManufacturerUpdatePage)
		taxi.POST("/manufacturers/:id/update/", h.ManufacturerUpdate)
		taxi.GET("/manufacturers/:id/delete/", h.ManufacturerDeletePage)
		taxi.POST("/manufacturers/:id/delete/", h.ManufacturerDelete)

		taxi.GET("/cars/", h.CarList)
		taxi.GET("/cars/create/", h.CarCreatePage)
		taxi.POST("/cars/create/", h.CarCreate)
		taxi.GET("/cars/:id/", h.CarDetail)
		taxi.GET("/cars/:id/update/", h.CarUpdatePage)
		taxi.POST("/cars/:id/update/", h.CarUpdate)
		taxi.GET("/cars/:id/delete/", h.CarDeletePage)
		taxi.POST("/cars/:id/delete/", h.CarDelete)
		taxi.POST("/cars/:id/toggle-assign/", h.CarToggleAssign)

		taxi.GET("/drivers/", h.DriverList)
		taxi.GET("/drivers/create/", h.DriverCreatePage)
		taxi.POST("/drivers/create/", h.DriverCreate)
		taxi.GET("/drivers/:id/", h.DriverDetail)
		taxi.GET("/drivers/:id/update/", h.DriverLicenseUpdatePage)
		taxi.POST("/drivers/:id/update/", h.DriverLicenseUpdate)
		taxi.GET("/drivers/:id/delete/", h.DriverDeletePage)
		taxi.POST("/drivers/:id/delete/", h.DriverDelete)
	}

	admin := r.Group("/admin", adminRequired())
	{
		admin.GET("/", h.AdminIndex)

		admin.GET("/taxi/manufacturer/", h.AdminManufacturerList)
		admin.GET("/taxi/manufacturer/:id/change/", h.AdminManufacturerChangePage)
		admin.POST("/taxi/manufacturer/:id/change/", h.AdminManufacturerChange)

		admin.GET("/taxi/car/", h.AdminCarList)
		admin.GET("/taxi/car/:id/change/", h.AdminCarChangePage)
		admin.POST("/taxi/car/:id/change/", h.AdminCarChange)

		admin.GET("/taxi/driver/", h.AdminDriverList)
		admin.GET("/taxi/driver/add/", h.AdminDriverAddPage)
		admin.POST("/taxi/driver/add/", h.AdminDriverAdd)
		admin.GET("/taxi/driver/:id/change/", h.AdminDriverChangePage)
		admin.POST("/taxi/driver/:id/change/", h.AdminDriverChange)
	}

	return r, nil
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.stg.Ping(ctx); err != nil {
		h.log.Error("health check failed", logger.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunServer serves until ctx is cancelled, then drains in-flight requests.
func RunServer(ctx context.Context, addr string, handler http.Handler, log logger.ILogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server started", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
