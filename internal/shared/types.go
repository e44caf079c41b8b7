package shared

// Task types processed by cmd/worker
const (
	TypeSendActivationEmail = "email:activation"
)

// Queue names
const (
	QueueDefault = "default"
)

// Context keys set by middleware
const (
	ContextUserID    = "userID"
	ContextRequestID = "request_id"
)
