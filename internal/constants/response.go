package constants

// Standard Response Field Keys
const (
	ResponseFieldSuccess = "success"
	ResponseFieldData    = "data"
	ResponseFieldMessage = "message"
)

// Response Format Functions
//
// Every endpoint answers with the same envelope: a success flag plus
// either a data payload or a human-readable message.

func BuildDataResponse(data any) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldData:    data,
	}
}

func BuildMessageResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: true,
		ResponseFieldMessage: message,
	}
}

func BuildErrorResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldSuccess: false,
		ResponseFieldMessage: message,
	}
}
