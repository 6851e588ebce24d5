package i18n

const (
	CommonBadParam            = "common.bad_param"
	CommonUnauthenticated     = "common.unauthenticated"
	CommonForbidden           = "security.forbidden"
	CommonRecordNotFound      = "common.record_not_found"
	CommonInternalServerError = "common.internal_server_error"

	GatewayBadUpstream    = "gateway.bad_upstream"
	GatewayRemoteRejected = "gateway.remote_rejected"
	GatewayProtocolDrift  = "gateway.protocol_drift"
)
