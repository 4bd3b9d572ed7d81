// Package llm adapts command text into actions through a language
// model. It is the optional second path beside the rule-based parser:
// the model is prompted to emit a JSON action list, which is decoded
// into the same Action type the rule parser produces.
//
// Two provider shapes exist: local (an Ollama-compatible generate
// endpoint, no credential) and hosted (an OpenAI-compatible chat
// endpoint, credential required). Provider errors are classified so
// callers can distinguish a missing credential from a dead endpoint.
package llm
