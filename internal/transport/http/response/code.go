package response

// Codes raised by the transport itself rather than a service.
const (
	CodeRateLimited   = "RATE_LIMITED"
	CodeServerBusy    = "SERVER_BUSY"
	CodeTimeout       = "TIMEOUT"
	CodeBodyTooLarge  = "BODY_TOO_LARGE"
	CodeRouteNotFound = "ROUTE_NOT_FOUND"
)
