package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	CacheRequestsTotal      *prometheus.CounterVec
	CacheInvalidationsTotal *prometheus.CounterVec

	AppointmentOperationsTotal *prometheus.CounterVec
	ReconciliationChangesTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в стандартном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в переданном реестре
// Используется в тестах, чтобы не конфликтовать с глобальным реестром
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "SQL query latency by operation.",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation", "status"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for.",
			ConstLabels: constLabels,
		}, []string{"db"}),

		CacheRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_requests_total",
			Help:        "Availability cache lookups by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),

		CacheInvalidationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_cache_invalidations_total",
			Help:        "Availability cache invalidations by result.",
			ConstLabels: constLabels,
		}, []string{"result"}),

		AppointmentOperationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_operations_total",
			Help:        "Appointment operations by kind and outcome.",
			ConstLabels: constLabels,
		}, []string{"operation", "outcome"}),

		ReconciliationChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reconciliation_changes_total",
			Help:        "Appointments changed by reconciliation jobs.",
			ConstLabels: constLabels,
		}, []string{"job"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.CacheRequestsTotal,
		m.CacheInvalidationsTotal,
		m.AppointmentOperationsTotal,
		m.ReconciliationChangesTotal,
	)

	return m
}

// Методы ниже безопасны для nil: при выключенных метриках ничего не делают

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// IncCacheRequest учитывает обращение к кэшу доступности (hit, miss, error)
func (m *Metrics) IncCacheRequest(result string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(result).Inc()
}

// IncCacheInvalidation учитывает инвалидацию кэша (ok, error)
func (m *Metrics) IncCacheInvalidation(result string) {
	if m == nil {
		return
	}
	m.CacheInvalidationsTotal.WithLabelValues(result).Inc()
}

// IncAppointmentOperation увеличивает счетчик операций с записями
func (m *Metrics) IncAppointmentOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.AppointmentOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// AddReconciliationChanges добавляет число измененных записей для задачи сверки
func (m *Metrics) AddReconciliationChanges(job string, changed int) {
	if m == nil || changed <= 0 {
		return
	}
	m.ReconciliationChangesTotal.WithLabelValues(job).Add(float64(changed))
}
