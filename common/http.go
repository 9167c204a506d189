package common

// HttpResponse is the JSON envelope of every Read API response.
type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}
