package assistant

var (
	ChatResponseSchema = chatResponseSchema
	LinkResponseSchema = linkResponseSchema
)
