package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the auth counters exported on /metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	OTPRequests *prometheus.CounterVec
	SMSFailures prometheus.Counter
	Logins      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sauti_auth_otp_requests_total",
			Help: "OTP requests by outcome",
		}, []string{"result"}),
		SMSFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "sauti_auth_sms_failures_total",
			Help: "OTP messages the SMS driver failed to deliver",
		}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sauti_auth_logins_total",
			Help: "Login attempts by kind (phone, admin) and outcome",
		}, []string{"kind", "result"}),
	}
}

func (m *Metrics) otpRequest(result string) {
	if m != nil {
		m.OTPRequests.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) smsFailed() {
	if m != nil {
		m.SMSFailures.Inc()
	}
}

func (m *Metrics) login(kind string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.Logins.WithLabelValues(kind, result).Inc()
}
