package models

// HealthStatus is the payload returned by the API's status endpoint.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// InfoRequest asks the API to gather additional information for a research query.
type InfoRequest struct {
	Query string `json:"query"`
}

// InfoResult is the successful answer of the gather-information endpoint. Info holds the raw text
// as produced by the backend, which may still contain tool-invocation markup.
type InfoResult struct {
	Success *bool  `json:"success,omitempty"`
	Query   string `json:"query,omitempty"`
	Info    string `json:"info,omitempty"`
	Message string `json:"message,omitempty"`
}

// FinalRequest asks the API to synthesize a final response from gathered content. UserQuery is
// left out of the payload when empty.
type FinalRequest struct {
	Content   string `json:"content"`
	UserQuery string `json:"user_query,omitempty"`
}

// FinalResult is the successful answer of the final-response endpoint.
type FinalResult struct {
	Success  *bool  `json:"success,omitempty"`
	Response string `json:"response,omitempty"`
	Message  string `json:"message,omitempty"`
}
