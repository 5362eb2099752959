// Package resilience provides fault isolation for calls to external hosts.
//
// The pipeline never retries a failed call. Instead, circuit breakers stop
// sending requests to a host that keeps failing so the remaining articles of
// a run are not held up by it.
//
// Usage Example:
//
//	breakers := circuitbreaker.NewHostBreakers(circuitbreaker.ScraperConfig())
//	result, err := breakers.Execute("www.example.com", func() (interface{}, error) {
//	    return fetchPage()
//	})
package resilience
