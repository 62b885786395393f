// Package proxy implements enrichment.Annotator against a plain JSON
// text-generation proxy: the prompt is POSTed as {"prompt": "..."} and the
// proxy answers with {"text": "..."}.
package proxy
