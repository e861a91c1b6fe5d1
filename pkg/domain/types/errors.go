package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so each layer can decide how far an error
// propagates: authentication and payload errors reject the whole request,
// the rest stay scoped to one candidate key or one alert channel.
var (
	ErrTagAuthFailed         = goerr.NewTag("auth_failed")
	ErrTagMalformedPayload   = goerr.NewTag("malformed_payload")
	ErrTagLookupFailed       = goerr.NewTag("lookup_failed")
	ErrTagDeactivationFailed = goerr.NewTag("deactivation_failed")
	ErrTagPublishFailed      = goerr.NewTag("publish_failed")
)
