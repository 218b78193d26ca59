package fiber

// RecordEventRequest represents the event ingestion payload
// @Description Analytics event DTO
type RecordEventRequest struct {
	TenantID    string `json:"tenant_id"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	ChannelID   string `json:"channel_id,omitempty"`
	Kind        string `json:"kind"`
	OccurredAt  int64  `json:"occurred_at,omitempty"`

	ResponseTimeMs *int64  `json:"response_time_ms,omitempty"`
	InputTokens    int64   `json:"input_tokens,omitempty"`
	OutputTokens   int64   `json:"output_tokens,omitempty"`
	Cost           float64 `json:"cost,omitempty"`

	UserID string `json:"user_id,omitempty"`
	Model  string `json:"model,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type RecordEventResponse struct {
	Status string `json:"status"`
}

type BulkRecordEventsRequest struct {
	Events []RecordEventRequest `json:"events"`
}

type BulkRecordEventsResponse struct {
	Accepted int `json:"accepted"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_json"`
	Message string `json:"message,omitempty" example:"Event payload is not valid JSON"`
}
