// Package metrics defines the Prometheus metrics for the JobTrackr API.
//
// Metrics are registered against a caller-supplied registerer so tests can use
// a private registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobtrackr"

// Result label values.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics holds every collector the API updates.
type Metrics struct {
	// RegistrationsTotal counts registration attempts by result.
	RegistrationsTotal *prometheus.CounterVec
	// LoginsTotal counts login attempts by result.
	LoginsTotal *prometheus.CounterVec
	// ResetRequestsTotal counts forgot-password requests.
	// Labels:
	//   - result: "sent", "unknown_email", "send_failed", "error"
	ResetRequestsTotal *prometheus.CounterVec
	// ResetConsumesTotal counts reset-password attempts by result.
	ResetConsumesTotal *prometheus.CounterVec
	// MailSendsTotal counts outbound emails by result.
	MailSendsTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RegistrationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of registration attempts, by result.",
		}, []string{"result"}),
		LoginsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts, by result.",
		}, []string{"result"}),
		ResetRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_reset_requests_total",
			Help:      "Total number of password reset requests, by result.",
		}, []string{"result"}),
		ResetConsumesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_reset_consumes_total",
			Help:      "Total number of password reset submissions, by result.",
		}, []string{"result"}),
		MailSendsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_sends_total",
			Help:      "Total number of outbound emails, by result.",
		}, []string{"result"}),
	}
}

// Nop returns unregistered collectors for callers that do not export metrics.
func Nop() *Metrics {
	return New(nil)
}
