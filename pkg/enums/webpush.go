package enums

// WebPushStatus records the outcome of a gateway delivery attempt on the
// legacy browser path. Uppercase values are the legacy wire format.
type WebPushStatus string

const (
	WebPushStatusSuccess WebPushStatus = "SUCCESS"
	WebPushStatusFailed  WebPushStatus = "FAILED"
)
