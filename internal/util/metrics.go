package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PickBatchesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pick_batches_created_total",
		Help: "Total number of pick list batches created",
	})

	PickBatchesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pick_batches_failed_total",
		Help: "Total number of failed pick batch requests",
	}, []string{"reason"})

	PickListItemsWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pick_list_items_written_total",
		Help: "Total number of pick list items committed",
	})

	OrdersAllocatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_allocated_total",
		Help: "Total number of orders with inventory reserved",
	})

	ReservationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_reservations_failed_total",
		Help: "Total number of failed inventory reservations",
	}, []string{"reason"})

	ReservationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_reservation_latency_seconds",
		Help:    "Latency of inventory reservation operations",
		Buckets: prometheus.DefBuckets,
	})

	ShortfallUnitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pick_shortfall_units_total",
		Help: "Total units deferred to backorder due to inventory shortfall",
	})

	BatchWriteLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pick_batch_write_latency_seconds",
		Help:    "Latency of the transactional pick list write",
		Buckets: prometheus.DefBuckets,
	})

	NotificationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_notifications_failed_total",
		Help: "Total number of worker notification delivery failures",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
