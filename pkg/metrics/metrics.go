package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus-метрик сервиса.
// Методы безопасно вызывать на nil (метрики выключены).
type Metrics struct {
	serviceName string

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	dbQueryDuration *prometheus.HistogramVec
	dbQueryErrors   *prometheus.CounterVec
	dbConnections   *prometheus.GaugeVec

	appointmentsCreated  *prometheus.CounterVec
	slotConflicts        *prometheus.CounterVec
	statusTransitions    *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
	cacheLookups         *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry создает метрики и регистрирует их в переданном реестре (удобно в тестах)
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),

		dbConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),

		appointmentsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_created_total",
			Help: "Appointments successfully reserved",
		}, []string{"service", "slot"}),

		slotConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appointment_slot_conflicts_total",
			Help: "Booking attempts rejected because the slot was closed or taken",
		}, []string{"service", "slot"}),

		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appointment_status_transitions_total",
			Help: "Applied appointment status transitions",
		}, []string{"service", "from", "to"}),

		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Notifications that could not be enqueued or delivered",
		}, []string{"service", "kind"}),

		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "availability_cache_lookups_total",
			Help: "Availability cache lookups by result",
		}, []string{"service", "result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbConnections,
		m.appointmentsCreated,
		m.slotConflicts,
		m.statusTransitions,
		m.notificationFailures,
		m.cacheLookups,
	)

	return m
}

// ObserveHTTPRequest фиксирует завершенный HTTP запрос
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.serviceName, method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.serviceName, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery фиксирует выполненный запрос к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(m.serviceName, operation).Inc()
	}
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.dbConnections.WithLabelValues(m.serviceName, "open").Set(float64(open))
	m.dbConnections.WithLabelValues(m.serviceName, "in_use").Set(float64(inUse))
	m.dbConnections.WithLabelValues(m.serviceName, "idle").Set(float64(idle))
}

// RecordAppointmentCreated увеличивает счетчик созданных записей
func (m *Metrics) RecordAppointmentCreated(slot string) {
	if m == nil {
		return
	}
	m.appointmentsCreated.WithLabelValues(m.serviceName, slot).Inc()
}

// RecordSlotConflict увеличивает счетчик отказов из-за занятого/закрытого слота
func (m *Metrics) RecordSlotConflict(slot string) {
	if m == nil {
		return
	}
	m.slotConflicts.WithLabelValues(m.serviceName, slot).Inc()
}

// RecordTransition фиксирует смену статуса записи
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(m.serviceName, from, to).Inc()
}

// RecordNotificationFailure фиксирует неотправленное уведомление
func (m *Metrics) RecordNotificationFailure(kind string) {
	if m == nil {
		return
	}
	m.notificationFailures.WithLabelValues(m.serviceName, kind).Inc()
}

// RecordCacheLookup фиксирует попадание или промах кэша доступности
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(m.serviceName, result).Inc()
}
