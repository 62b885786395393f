// Package gemini implements enrichment.Annotator with Google's genai client.
//
// The client is pointed at the configured endpoint as its base URL, so the
// same code talks to the public Gemini API or to any proxy that speaks its
// generateContent protocol. The annotation is the concatenated text of the
// first candidate; a response blocked by safety filters is an error.
package gemini
