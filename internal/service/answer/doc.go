// Package answer implements the answer validation engine: it
// canonicalizes submitted answers, dispatches the per-delivery-method
// comparison strategy, optionally consults the external grammar
// checker, and renders feedback according to the user's configured
// verbosity. Pronunciation prompts follow a separate path that
// delegates scoring to the external pronunciation assessor.
//
// Validation is stateless per call and never writes the attempt
// itself; recording happens in the attempt package.
package answer
