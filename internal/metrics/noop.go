package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder
type NoopMetrics struct{}

var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordLogin(method string, success bool)                       {}
func (n *NoopMetrics) RecordLogout()                                                 {}
func (n *NoopMetrics) RecordOAuthCallback(provider, result string)                   {}
func (n *NoopMetrics) RecordExternalAPICall(provider string, duration time.Duration) {}
func (n *NoopMetrics) RecordEventCreated()                                           {}
func (n *NoopMetrics) RecordRegistration(result string)                              {}
func (n *NoopMetrics) RecordPostCreated()                                            {}
func (n *NoopMetrics) RecordCommentCreated()                                         {}
func (n *NoopMetrics) RecordAuthorizationDenied(action string)                       {}
func (n *NoopMetrics) SetUsersCount(count int)                                       {}
func (n *NoopMetrics) SetEventsCount(count int)                                      {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                     {}
