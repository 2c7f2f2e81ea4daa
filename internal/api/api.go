package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ougirez/aquagas/internal/api/controller"
	"github.com/ougirez/aquagas/internal/pkg/constants"
	"github.com/ougirez/aquagas/internal/pkg/imagesource"
	"github.com/ougirez/aquagas/internal/pkg/logger"
	"github.com/ougirez/aquagas/internal/pkg/recognition"
	"github.com/ougirez/aquagas/internal/pkg/store"
	"github.com/ougirez/aquagas/internal/service/measure"
)

type APIService struct {
	router         *echo.Echo
	measureService *measure.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func NewAPIService(store store.Store, recognizer recognition.Recognizer, fetcher *imagesource.Fetcher) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = NewSonicSerializer()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.BodyLimit(constants.MaxRequestBodySize))

	svc.measureService = measure.NewMeasureService(store, recognizer, fetcher)

	cntrl := controller.NewController(svc.measureService)

	svc.router.POST("/upload", cntrl.Upload)
	svc.router.PATCH("/confirm", cntrl.Confirm)
	svc.router.GET("/:customer_code/list", cntrl.ListByCustomer)

	return svc, nil
}

// Router exposes the underlying echo instance for tests.
func (svc *APIService) Router() *echo.Echo {
	return svc.router
}
