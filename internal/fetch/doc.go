// Package fetch provides the HTTP transport shared by the article and
// image fetch paths.
//
// Every request carries a bounded timeout and the pinzine User-Agent.
// TLS certificate verification is always enabled; there is no insecure
// mode. Response bodies are capped to protect against hostile or
// broken servers.
package fetch
