// Package genai abstracts the external text-generation service.
//
// The rest of Rufus depends only on the TextGenerator interface, which has
// exactly four call shapes: strategy planning, link selection, relevance
// judgment, and document synthesis. This keeps every hard-to-test judgment
// call behind one narrow boundary, so tests swap in deterministic stubs
// without touching crawl logic.
//
// ChatClient implements the interface against any OpenAI-compatible
// chat-completions endpoint. The service is treated as a slow, unreliable
// black box: every call carries a request timeout, and malformed responses
// surface as errors for callers to apply their own fallback rules.
package genai
