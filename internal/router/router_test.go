package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/handler/appointment"
	"github.com/jwalitptl/salon-api/internal/handler/catalog"
	"github.com/jwalitptl/salon-api/internal/handler/customer"
	"github.com/jwalitptl/salon-api/internal/handler/dashboard"
	"github.com/jwalitptl/salon-api/internal/handler/expert"
	"github.com/jwalitptl/salon-api/internal/handler/health"
	"github.com/jwalitptl/salon-api/internal/middleware"
	"github.com/jwalitptl/salon-api/internal/repository/memory"
	appointmentService "github.com/jwalitptl/salon-api/internal/service/appointment"
	catalogService "github.com/jwalitptl/salon-api/internal/service/catalog"
	customerService "github.com/jwalitptl/salon-api/internal/service/customer"
	expertService "github.com/jwalitptl/salon-api/internal/service/expert"
	"github.com/jwalitptl/salon-api/internal/service/guard"
	"github.com/jwalitptl/salon-api/internal/service/notification"
	statsService "github.com/jwalitptl/salon-api/internal/service/stats"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	store := memory.NewStore()
	log := logger.Nop()
	m := metrics.New("test")
	g := guard.New(store.Appointments)
	notifier := notification.NewService(notification.NewDiscardDispatcher(log), notification.Config{}, log, m)

	r := NewRouter(
		RouterConfig{
			RateLimit:      1000,
			RateBurst:      1000,
			CORSConfig:     middleware.DefaultCORSConfig(),
			RequestTimeout: 5 * time.Second,
			Registry:       prometheus.NewRegistry(),
		},
		health.NewHandler(nil),
		catalog.NewHandler(catalogService.NewService(store.Services, g)),
		expert.NewHandler(expertService.NewService(store.Experts, g)),
		customer.NewHandler(customerService.NewService(store.Customers, g)),
		appointment.NewHandler(appointmentService.NewService(
			store.Appointments, store.Experts, notifier,
			appointmentService.Config{TimeSlots: []string{"09:00", "09:30", "10:00"}},
			log, m,
		)),
		dashboard.NewHandler(statsService.NewService(store.Stats, time.UTC)),
	)
	r.Setup()
	return r
}

func do(t *testing.T, r *Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createID(t *testing.T, r *Router, path string, body interface{}) int64 {
	t.Helper()
	w := do(t, r, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(decode(t, w)["id"].(float64))
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))

	w = do(t, r, http.MethodGet, "/api/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingFlow(t *testing.T) {
	r := newTestRouter(t)

	serviceID := createID(t, r, "/api/services", map[string]interface{}{"name": "Saç Kesimi", "price": 150.5})
	expertID := createID(t, r, "/api/experts", map[string]interface{}{
		"name": "Ayşe", "specialty": "Saç", "workDays": []string{"Monday", "Pazartesi", "Tuesday"},
	})
	customerID := createID(t, r, "/api/customers", map[string]interface{}{
		"name": "Zeynep", "phone": "0532 123 45 67", "email": "zeynep@example.com",
	})

	// Ids posted as strings, the way HTML forms send them.
	booking := map[string]interface{}{
		"date":       "2024-03-18",
		"time":       "10:00",
		"customerId": fmt.Sprint(customerID),
		"serviceId":  fmt.Sprint(serviceID),
		"expertId":   fmt.Sprint(expertID),
		"status":     "confirmed",
	}
	w := do(t, r, http.MethodPost, "/api/appointments", booking)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "2024-03-18", created["date"])
	assert.Equal(t, "Zeynep", created["customer"].(map[string]interface{})["name"])
	assert.Equal(t, 150.5, created["service"].(map[string]interface{})["price"])
	aptID := int64(created["id"].(float64))

	// Any new booking of a confirmed slot is rejected, whatever its status.
	for _, status := range []string{"confirmed", "pending"} {
		booking["status"] = status
		w = do(t, r, http.MethodPost, "/api/appointments", booking)
		assert.Equal(t, http.StatusConflict, w.Code, status)
		assert.Equal(t, "Çakışma var! Bu tarih ve saatte uzman müsait değil.", decode(t, w)["error"])
	}

	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/appointments?expertId=%d&status=confirmed", expertID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/experts/%d/availability?date=2024-03-18", expertID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	avail := decode(t, w)
	assert.Equal(t, true, avail["worksDay"])
	slots := avail["slots"].([]interface{})
	require.Len(t, slots, 3)
	assert.Equal(t, false, slots[2].(map[string]interface{})["available"])

	// Friday is not one of her work days; every slot is still free.
	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/experts/%d/availability?date=2024-03-22", expertID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	avail = decode(t, w)
	assert.Equal(t, false, avail["worksDay"])
	for _, slot := range avail["slots"].([]interface{}) {
		assert.Equal(t, true, slot.(map[string]interface{})["available"])
	}

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/api/customers/%d", customerID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cannot delete customer: appointments exist", decode(t, w)["error"])

	w = do(t, r, http.MethodGet, "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	overview := stats["overview"].(map[string]interface{})
	assert.Equal(t, float64(1), overview["totalAppointments"])
	assert.Equal(t, float64(1), stats["statusStats"].(map[string]interface{})["confirmed"])
	assert.Len(t, stats["monthlyStats"], 6)
	assert.Equal(t, "Saç Kesimi", stats["popularServices"].([]interface{})[0].(map[string]interface{})["serviceName"])

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/api/appointments/%d", aptID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/api/customers/%d", customerID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateOnlyChecksConfirmed(t *testing.T) {
	r := newTestRouter(t)

	serviceID := createID(t, r, "/api/services", map[string]interface{}{"name": "Manikür", "price": "80"})
	expertID := createID(t, r, "/api/experts", map[string]interface{}{"name": "Elif"})
	customerID := createID(t, r, "/api/customers", map[string]interface{}{"name": "Deniz", "phone": "+905321234567"})

	booking := map[string]interface{}{
		"date": "2024-05-01", "time": "09:00", "status": "confirmed",
		"customerId": customerID, "serviceId": serviceID, "expertId": expertID,
	}
	createID(t, r, "/api/appointments", booking)

	booking["time"] = "09:30"
	other := createID(t, r, "/api/appointments", booking)

	// Moving onto the held slot as completed is allowed.
	booking["time"] = "09:00"
	booking["status"] = "completed"
	w := do(t, r, http.MethodPut, fmt.Sprintf("/api/appointments/%d", other), booking)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	booking["status"] = "confirmed"
	w = do(t, r, http.MethodPut, fmt.Sprintf("/api/appointments/%d", other), booking)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodPut, "/api/appointments/9999", booking)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		errMsg string
	}{
		{"invalid id", http.MethodGet, "/api/services/abc", nil, http.StatusBadRequest, "invalid service ID"},
		{"missing service", http.MethodGet, "/api/services/42", nil, http.StatusNotFound, "service not found"},
		{"missing name", http.MethodPost, "/api/experts", map[string]interface{}{"specialty": "x"}, http.StatusBadRequest, "name is required"},
		{"bad weekday", http.MethodPost, "/api/experts", map[string]interface{}{"name": "x", "workDays": []string{"Funday"}}, http.StatusBadRequest, `workDays[0] contains an unknown weekday "Funday"`},
		{"bad time", http.MethodPost, "/api/appointments", map[string]interface{}{
			"date": "2024-01-01", "time": "25:00", "customerId": 1, "serviceId": 1, "expertId": 1,
		}, http.StatusBadRequest, "time must be a time in HH:MM format"},
		{"unknown references", http.MethodPost, "/api/appointments", map[string]interface{}{
			"date": "2024-01-01", "time": "10:00", "customerId": 1, "serviceId": 1, "expertId": 1,
		}, http.StatusBadRequest, ""},
		{"missing date query", http.MethodGet, "/api/experts/1/availability", nil, http.StatusBadRequest, "date query parameter must be YYYY-MM-DD"},
		{"unknown route", http.MethodGet, "/api/nothing", nil, http.StatusNotFound, "route not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decode(t, w)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body["error"])
			} else {
				assert.NotEmpty(t, body["error"])
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	do(t, r, http.MethodGet, "/api/health", nil)

	w := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `salon_api_requests_total{method="GET",path="/api/health",status="200"} 1`)
}
