package httpapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/deca-be/ml-scheduler/internal/extractor"
	"github.com/deca-be/ml-scheduler/internal/httpapi"
)

func TestHTTPAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "HTTP surface")
}

type fakeCalculator struct {
	calls chan time.Duration
}

func (f *fakeCalculator) CalculatePlanning(ctx context.Context, duration time.Duration) (extractor.Result, error) {
	f.calls <- duration
	return extractor.Result{}, nil
}

var _ = Describe("Routes", func() {
	It("dispatches calculate_planning in the background and returns immediately", func() {
		calc := &fakeCalculator{calls: make(chan time.Duration, 1)}
		srv := httpapi.NewServer(calc)
		mux := http.NewServeMux()
		srv.Routes(mux)

		req := httptest.NewRequest(http.MethodGet, "/calculate_planning/30", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("started in background"))

		select {
		case d := <-calc.calls:
			Expect(d).To(Equal(30 * time.Second))
		case <-time.After(time.Second):
			Fail("background dispatch never called CalculatePlanning")
		}
		Expect(srv.Wait()).NotTo(HaveOccurred())
	})

	It("rejects a non-numeric duration with 400", func() {
		calc := &fakeCalculator{calls: make(chan time.Duration, 1)}
		srv := httpapi.NewServer(calc)
		mux := http.NewServeMux()
		srv.Routes(mux)

		req := httptest.NewRequest(http.MethodGet, "/calculate_planning/soon", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("serves metrics on GET /metrics", func() {
		calc := &fakeCalculator{calls: make(chan time.Duration, 1)}
		srv := httpapi.NewServer(calc)
		mux := http.NewServeMux()
		srv.Routes(mux)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
