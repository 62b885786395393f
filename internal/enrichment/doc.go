// Package enrichment turns a task description into a one-line annotation by
// calling an external text-generation service.
//
// The Annotator interface is the boundary to the external service; concrete
// adapters live under internal/platform (an HTTP proxy and a Gemini client).
// Enricher wraps an Annotator with the prompt template, the output
// normalization, and the failure policy: any upstream failure is logged and
// replaced by the "N/A" sentinel, so enrichment never fails a request.
package enrichment
