package e2e

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/prometheus/client_golang/prometheus"

	personhandler "pidstore/internal/person/handler"
	"pidstore/internal/person/service"
	"pidstore/internal/person/store"
	"pidstore/internal/platform/health"
	httptransport "pidstore/internal/transport/http"
	"pidstore/pkg/platform/middleware/request"
)

var opts = godog.Options{
	Output: colors.Colored(os.Stdout),
	Format: "pretty",
	Paths:  []string{"features"},
}

func init() {
	godog.BindCommandLineFlags("godog.", &opts)
}

func TestFeatures(t *testing.T) {
	flag.Parse()
	opts.TestingT = t

	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

// InitializeScenario targets BASE_URL when set; otherwise each scenario gets
// its own in-process server backed by the in-memory store.
func InitializeScenario(sc *godog.ScenarioContext) {
	tc := NewTestContext(os.Getenv("BASE_URL"))
	var srv *httptest.Server

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		baseURL := os.Getenv("BASE_URL")
		if baseURL == "" {
			srv = httptest.NewServer(newInProcessRouter())
			baseURL = srv.URL
		}
		*tc = *NewTestContext(baseURL)
		return ctx, nil
	})

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if srv != nil {
			srv.Close()
			srv = nil
		}
		if err != nil {
			fmt.Printf("Scenario failed: %s\nLast Response: %s\n", sc.Name, string(tc.LastResponseBody))
		}
		return ctx, nil
	})

	RegisterSteps(sc, tc)
}

func newInProcessRouter() http.Handler {
	reg := prometheus.NewRegistry()
	svc := service.New(store.NewInMemory())
	return httptransport.NewRouter(httptransport.RouterConfig{
		Gatherer:     reg,
		HTTPMetrics:  request.NewMetrics(reg),
		MaxBodyBytes: 1 << 20,
	}, health.New("e2e"), personhandler.New(svc, nil))
}
