package response

// Response is the uniform API envelope: a success flag, a human message and
// either data or an errors list, so failure shape is predictable regardless
// of endpoint.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a limit/skip window over a total result set.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Skip    int   `json:"skip"`
	HasMore bool  `json:"hasMore"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Success wraps data in a successful envelope.
func Success(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Error wraps a failure message.
func Error(message string) Response {
	return Response{Success: false, Message: message}
}

// ValidationError wraps a failure message with field-level details.
func ValidationError(message string, errs []FieldError) Response {
	return Response{Success: false, Message: message, Errors: errs}
}

// Paginated wraps data plus a pagination descriptor.
func Paginated(message string, data interface{}, p Pagination) Response {
	return Response{Success: true, Message: message, Data: data, Pagination: &p}
}
