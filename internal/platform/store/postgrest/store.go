package postgrest

import (
	"net/http"
	"time"

	"smartWaiter/internal/platform/store"
)

// Open builds a store backed by the hosted PostgREST API at projectURL.
func Open(projectURL, apiKey string, timeout time.Duration, httpClient *http.Client) *store.Store {
	client := NewClient(projectURL, apiKey, timeout, httpClient)
	return store.New(
		NewTableRepository(client),
		NewMenuRepository(client),
		NewOrderRepository(client),
		nil,
	)
}
