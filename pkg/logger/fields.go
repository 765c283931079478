package logger

// Field names shared by every log line.
const (
	FieldService   = "service"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldUserID    = "user_id"
	FieldRole      = "role"
	FieldRequestID = "request_id"
	FieldEntity    = "entity"
	FieldEntityID  = "entity_id"
)
