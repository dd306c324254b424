package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rxtech-lab/dionysus/internal/controller"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/metrics"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServerTestSuite struct {
	suite.Suite
	controller *controller.Controller
	metrics    *metrics.Metrics
	server     *Server
	token      types.Token
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	ctrl := gomock.NewController(suite.T())
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().FetchLast(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	suite.token = types.NewPair("BTC", "USDT")
	suite.metrics = metrics.NewMetrics("")
	suite.controller = controller.New(source, mocks.NewMockTrader(ctrl), controller.WithMetrics(suite.metrics))
	suite.Require().NoError(suite.controller.AddToken(context.Background(), suite.token))
	suite.Require().NoError(suite.controller.SetBalance(suite.token, 0.25))

	suite.server = New(suite.controller, suite.metrics, logger.NewNopLogger())
}

func (suite *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	suite.server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	return recorder
}

func (suite *ServerTestSuite) TestAgents() {
	recorder := suite.get("/agents")
	suite.Equal(http.StatusOK, recorder.Code)

	var views []AgentView
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &views))
	suite.Require().Len(views, 1)
	suite.Equal("BTC/USDT", views[0].Token)
	suite.Equal("Delphi 1d", views[0].Strategy)
	suite.Equal(0.25, views[0].Balance)
}

func (suite *ServerTestSuite) TestAgentByToken() {
	recorder := suite.get("/agents/btc/usdt")
	suite.Equal(http.StatusOK, recorder.Code)

	var view AgentView
	suite.Require().NoError(json.Unmarshal(recorder.Body.Bytes(), &view))
	suite.Equal("BTC/USDT", view.Token)

	missing := suite.get("/agents/ETH/USDT")
	suite.Equal(http.StatusNotFound, missing.Code)
	suite.Contains(missing.Body.String(), "no agent for ETH/USDT")
}

func (suite *ServerTestSuite) TestBalances() {
	recorder := suite.get("/balances")
	suite.Equal(http.StatusOK, recorder.Code)
	suite.JSONEq(`{"BTC/USDT": 0.25}`, recorder.Body.String())
}

func (suite *ServerTestSuite) TestMetrics() {
	suite.metrics.EventsDropped.Inc()

	recorder := suite.get("/metrics")
	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), "dionysus_market_events_dropped_total 1")
}

func (suite *ServerTestSuite) TestMethodNotAllowed() {
	recorder := httptest.NewRecorder()
	suite.server.Router().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/agents", nil))
	suite.Equal(http.StatusMethodNotAllowed, recorder.Code)
}

func (suite *ServerTestSuite) TestStartAndStop() {
	suite.Require().NoError(suite.server.Start("127.0.0.1:0"))
	defer suite.server.Stop(context.Background())

	response, err := http.Get("http://" + suite.server.Addr() + "/version")
	suite.Require().NoError(err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	suite.NoError(err)
	suite.Equal(http.StatusOK, response.StatusCode)
	suite.Contains(string(body), "version")
}
