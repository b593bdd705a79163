// Package openai implements suggest.Suggester against OpenAI-compatible
// chat APIs (OpenAI, Ollama, vLLM, LocalAI).
//
// The suggester runs the model in JSON mode at temperature 0 and retries
// parsing up to three times before giving up. Model output naming
// products outside the provided candidate list is dropped rather than
// surfaced, so callers only ever see catalog products.
package openai
