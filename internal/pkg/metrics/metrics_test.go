package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	// 各テストで新しいレジストリを使用
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.BookingsTotal)
	assert.NotNil(t, m.BookingAttempts)
	assert.NotNil(t, m.CancellationsTotal)
}

func TestHTTPRequestsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	// リクエストをカウント
	m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/movies", "200").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/shows/:id/book", "201").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/shows/:id/book", "409").Inc()

	// メトリクスが正しく収集されているか確認
	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "http_requests_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "http_requests_total metric not found")
}

func TestBookingsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	// 予約成功・競合をカウント
	m.BookingsTotal.WithLabelValues("confirmed").Inc()
	m.BookingsTotal.WithLabelValues("confirmed").Inc()
	m.BookingsTotal.WithLabelValues("seat_taken").Inc()
	m.BookingsTotal.WithLabelValues("show_full").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "bookings_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "bookings_total metric not found")
}

func TestBookingAttempts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	// 試行回数を観測
	m.BookingAttempts.Observe(1)
	m.BookingAttempts.Observe(3)
	m.BookingAttempts.Observe(5)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "booking_attempts" {
			found = true
			require.Equal(t, 1, len(f.GetMetric()))
			assert.Equal(t, uint64(3), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found, "booking_attempts metric not found")
}

func TestCancellationsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.CancellationsTotal.WithLabelValues("cancelled").Inc()
	m.CancellationsTotal.WithLabelValues("not_owner").Inc()
	m.CancellationsTotal.WithLabelValues("already_cancelled").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "cancellations_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "cancellations_total metric not found")
}

func TestHTTPRequestDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HTTPRequestDuration.WithLabelValues("GET", "/api/v1/movies").Observe(0.023)
	m.HTTPRequestDuration.WithLabelValues("GET", "/api/v1/movies").Observe(0.051)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "http_request_duration_seconds" {
			found = true
			require.Equal(t, 1, len(f.GetMetric()))
			assert.Equal(t, uint64(2), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found, "http_request_duration_seconds metric not found")
}

func TestInit_CreatesDefaultMetrics(t *testing.T) {
	// Init はデフォルトレジストリへ登録するため二重登録を避けて1回のみ実行
	if defaultMetrics == nil {
		m := Init()
		require.NotNil(t, m)
	}
	assert.Equal(t, defaultMetrics, Get())
}
