package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	AuthAttempts *prometheus.CounterVec

	LeavesCreated prometheus.Counter
	LeavesDecided *prometheus.CounterVec
	LeaveSweeps   prometheus.Counter

	AdvancesCreated    prometheus.Counter
	RepaymentsRecorded prometheus.Counter

	InvoicesCreated  prometheus.Counter
	PaymentsRecorded prometheus.Counter

	PayslipsGenerated prometheus.Counter
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gestion_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		LeavesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gestion_leaves_created_total",
			Help: "Total leave requests created",
		}),
		LeavesDecided: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_leaves_decided_total",
				Help: "Total leave decisions by outcome",
			},
			[]string{"decision"},
		),
		LeaveSweeps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gestion_leave_sweeps_total",
			Help: "Total leave status sweep runs",
		}),
		AdvancesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gestion_advances_created_total",
			Help: "Total salary advances created",
		}),
		RepaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gestion_advance_repayments_total",
			Help: "Total advance repayments recorded",
		}),
		InvoicesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gestion_invoices_created_total",
			Help: "Total invoices created",
		}),
		PaymentsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gestion_invoice_payments_total",
			Help: "Total invoice payments recorded",
		}),
		PayslipsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gestion_payslips_generated_total",
			Help: "Total payslips generated",
		}),
	}
}
