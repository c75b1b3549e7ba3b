package metrics

import "time"

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// RecordLogin records login attempt
func (m *Metrics) RecordLogin(method string, success bool) {
	result := resultSuccess
	if !success {
		result = resultFailure
	}
	m.AuthLoginTotal.WithLabelValues(method, result).Inc()
}

func (m *Metrics) RecordLogout() {
	m.AuthLogoutTotal.Inc()
}

// RecordOAuthCallback records the outcome of an OAuth callback
// (success, state_mismatch, token_expired, provider_error, missing_email).
func (m *Metrics) RecordOAuthCallback(provider, result string) {
	m.AuthOAuthCallbackTotal.WithLabelValues(provider, result).Inc()
}

// RecordExternalAPICall records identity provider call duration
func (m *Metrics) RecordExternalAPICall(provider string, duration time.Duration) {
	m.AuthExternalAPIDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

func (m *Metrics) RecordEventCreated() {
	m.EventsCreatedTotal.Inc()
}

func (m *Metrics) RecordRegistration(result string) {
	m.RegistrationsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordPostCreated() {
	m.PostsCreatedTotal.Inc()
}

func (m *Metrics) RecordCommentCreated() {
	m.CommentsCreatedTotal.Inc()
}

func (m *Metrics) RecordAuthorizationDenied(action string) {
	m.AuthorizationDenied.WithLabelValues(action).Inc()
}

func (m *Metrics) SetUsersCount(count int) {
	m.UsersTotal.Set(float64(count))
}

func (m *Metrics) SetEventsCount(count int) {
	m.EventsTotal.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error during metric collection
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
