package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gavv/httpexpect/v2"
	"github.com/go-chi/httplog/v2"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/nhood/internal/config"
)

type APITestSuite struct {
	suite.Suite
	logger *httplog.Logger
}

func (suite *APITestSuite) SetupSuite() {
	suite.logger = httplog.NewLogger("", httplog.Options{Writer: io.Discard})
}

func (suite *APITestSuite) newExpect(svc Service, cfg *config.Config) *httpexpect.Expect {
	handler, err := newHandler(context.Background(), cfg, svc, nil, suite.logger)
	suite.Require().NoError(err)

	server := httptest.NewServer(handler)
	suite.T().Cleanup(server.Close)

	return httpexpect.Default(suite.T(), server.URL)
}

func memoryConfig(name string) *config.Config {
	return &config.Config{
		Env:     config.EnvDev,
		Name:    name,
		Version: "0.1.0",
		Storage: config.StorageMemory,
	}
}

func (suite *APITestSuite) TestDataURLLifecycle() {
	e := suite.newExpect(DataURLService, memoryConfig("nhood-data-url-svc"))

	e.GET("/urls").
		Expect().
		Status(http.StatusOK).
		JSON().Array().IsEmpty()

	e.POST("/urls").
		WithJSON(map[string]any{"key": []string{"K1", "K2"}, "url": "http://x"}).
		Expect().
		Status(http.StatusCreated).
		Header("Location").IsEqual("/urls/1")

	e.GET("/urls/1").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		IsEqual(map[string]any{"id": 1, "key": []string{"K1", "K2"}, "url": "http://x"})

	e.PUT("/urls/1").
		WithJSON(map[string]any{"id": 7, "key": []string{"K3"}, "url": "http://y"}).
		Expect().
		Status(http.StatusNoContent).
		NoContent()

	e.GET("/urls/1").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		IsEqual(map[string]any{"id": 1, "key": []string{"K3"}, "url": "http://y"})

	e.POST("/urls").
		WithJSON(map[string]any{"key": []string{}, "url": "http://z"}).
		Expect().
		Status(http.StatusBadRequest).
		NoContent()

	e.GET("/urls").
		Expect().
		Status(http.StatusOK).
		JSON().Array().Length().IsEqual(1)

	e.DELETE("/urls/1").
		Expect().
		Status(http.StatusNoContent).
		NoContent()

	e.GET("/urls/1").
		Expect().
		Status(http.StatusNotFound).
		NoContent()

	e.DELETE("/urls/1").
		Expect().
		Status(http.StatusNotFound).
		NoContent()
}

func (suite *APITestSuite) TestLocationLifecycle() {
	e := suite.newExpect(LocationService, memoryConfig("nhood-location-svc"))

	e.PUT("/locations/999999999999").
		WithJSON(map[string]any{"message": "m", "latitude": 1.0, "longitude": 2.0}).
		Expect().
		Status(http.StatusNotFound).
		NoContent()

	e.POST("/locations").
		WithJSON(map[string]any{"message": "m", "latitude": 1.5, "longitude": -2.5}).
		Expect().
		Status(http.StatusCreated).
		Header("Location").IsEqual("/locations/1")

	e.GET("/locations/1").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		IsEqual(map[string]any{"id": 1, "message": "m", "latitude": 1.5, "longitude": -2.5})
}

func (suite *APITestSuite) TestSeed() {
	cfg := memoryConfig("nhood-location-svc")
	cfg.Seed = true

	e := suite.newExpect(LocationService, cfg)

	arr := e.GET("/locations").
		Expect().
		Status(http.StatusOK).
		JSON().Array()

	arr.Length().IsEqual(1)
	arr.Value(0).Object().
		HasValue("message", "Hello!").
		HasValue("latitude", 50.049683).
		HasValue("longitude", 19.944544)
}

func (suite *APITestSuite) TestServiceEndpoints() {
	cfg := memoryConfig("nhood-data-url-svc")
	cfg.RateLimit = config.RateLimit{RPS: 100, Burst: 100}

	e := suite.newExpect(DataURLService, cfg)

	e.GET("/").
		Expect().
		Status(http.StatusOK).
		Text().IsEqual("nhood-data-url-svc:0.1.0")

	e.GET("/urls").
		Expect().
		Status(http.StatusOK)

	e.GET("/metrics").
		Expect().
		Status(http.StatusOK).
		Body().Contains(`nhood_data_url_svc_http_requests_total{method="GET"`)
}

func (suite *APITestSuite) TestUnknownService() {
	_, err := newHandler(context.Background(), memoryConfig("x"), Service("weather"), nil, suite.logger)

	suite.Error(err)
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
