package http

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bmizerany/assert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/samueltorres/countd/pkg/counter"
	"github.com/samueltorres/countd/pkg/file"
)

func newTestServer(fs afero.Fs) *Server {
	logger := logrus.New()
	logger.SetOutput(ioutil.Discard)

	storage := file.NewStorage(fs, "/data/count", logger)
	counterService := counter.NewCounterService(storage, logger, prometheus.NewRegistry())

	return New(counterService, logger, prometheus.NewRegistry())
}

func doRequest(s *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestCounterScenario(t *testing.T) {
	s := newTestServer(afero.NewMemMapFs())

	w := doRequest(s, "GET", "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Current POST requests count: 0", w.Body.String())

	w = doRequest(s, "POST", "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "POST requests counter updated. Current count: 1", w.Body.String())

	w = doRequest(s, "GET", "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Current POST requests count: 1", w.Body.String())

	w = doRequest(s, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var health struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &health)
	assert.Equal(t, nil, err)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "", health.Reason)
}

func TestSequentialPosts(t *testing.T) {
	s := newTestServer(afero.NewMemMapFs())

	for i := 1; i <= 5; i++ {
		w := doRequest(s, "POST", "/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, fmt.Sprintf("POST requests counter updated. Current count: %d", i), w.Body.String())
	}

	// reading is idempotent
	for i := 0; i < 2; i++ {
		w := doRequest(s, "GET", "/")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Current POST requests count: 5", w.Body.String())
	}
}

func TestCorruptCounterFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "/data/count", []byte("not-a-number"), 0644)
	s := newTestServer(fs)

	w := doRequest(s, "GET", "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(s, "POST", "/")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doRequest(s, "GET", "/health")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var health struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &health)
	assert.Equal(t, nil, err)
	assert.Equal(t, "unhealthy", health.Status)
	assert.NotEqual(t, "", health.Reason)
}

func TestHealthRejectsPost(t *testing.T) {
	s := newTestServer(afero.NewMemMapFs())

	w := doRequest(s, "POST", "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
