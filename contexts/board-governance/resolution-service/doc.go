// Package resolutionservice implements board resolutions inside the
// board-governance context.
//
// The module owns the resolution lifecycle (draft/review/voting/decision),
// ballot casting with one-ballot-per-voter semantics, the pure tally
// evaluator that every voting surface reads from, and the completion
// detector that finalizes a vote when its window ends. Business rules live
// in application/domain layers; infrastructure stays behind ports and
// adapters.
package resolutionservice
