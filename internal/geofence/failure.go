package geofence

// FailureCode classifies why location acquisition itself failed. When
// acquisition fails the authorizer never runs; these are "we don't know
// where you are" outcomes, distinct from denial.
type FailureCode string

const (
	FailurePermissionDenied    FailureCode = "permission_denied"
	FailurePositionUnavailable FailureCode = "position_unavailable"
	FailureTimeout             FailureCode = "timeout"
	FailureUnknown             FailureCode = "unknown"
)

// ClassifyFailure maps the W3C Geolocation error codes reported by the
// client (1=permission denied, 2=position unavailable, 3=timeout) to a
// failure class. Anything else is unknown.
func ClassifyFailure(code int) FailureCode {
	switch code {
	case 1:
		return FailurePermissionDenied
	case 2:
		return FailurePositionUnavailable
	case 3:
		return FailureTimeout
	default:
		return FailureUnknown
	}
}

// ParseFailure normalizes a client-supplied failure string to a known
// class, defaulting to unknown.
func ParseFailure(value string) FailureCode {
	switch FailureCode(value) {
	case FailurePermissionDenied, FailurePositionUnavailable, FailureTimeout:
		return FailureCode(value)
	default:
		return FailureUnknown
	}
}
