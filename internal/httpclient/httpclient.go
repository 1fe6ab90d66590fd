package httpclient

import "net/http"

// HTTPClient is the subset of *http.Client used to talk to plain HTTP endpoints.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Default returns the client used when none is injected. It sets no timeout.
func Default() HTTPClient {
	return &http.Client{}
}
