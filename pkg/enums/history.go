package enums

// HistoryAction labels an audit-trail entry. The column is free-form text in
// the schema; these are the actions the service itself emits.
type HistoryAction string

const (
	HistoryActionCreated   HistoryAction = "created"
	HistoryActionSent      HistoryAction = "sent"
	HistoryActionDelivered HistoryAction = "delivered"
	HistoryActionRead      HistoryAction = "read"
	HistoryActionFailed    HistoryAction = "failed"
)
