// Package llm connects reconciliation cases to language model providers.
// It supports local Ollama models as well as OpenAI, Anthropic and Gemini, with
// optional retry, rate limiting and response caching.
package llm
