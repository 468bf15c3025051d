// Package inverse synthesizes the inverse of a forward write from its
// pre-mutation row snapshots, and keeps the tag ledger that maps each
// caller-supplied tag to its recorded inverse sequence.
//
// Synthesis is pure: every function here turns captured state into an
// ordered Sequence of parameterized statements without touching the
// database. Execution is the journal's job.
//
// # Critical Patterns
//
// CP-1: Stable Column Order
//   - Step parameters follow the snapshot's column order exactly, so
//     capture order and replay order are identical
//
// CP-3: Identity Excluded From SET
//   - An UPDATE-restore step sets every captured column except the
//     identity column, which appears only as the match key; its
//     parameter list therefore sizes to all-columns-minus-identity
//
// CP-5: Canonical Tags
//   - Ledger keys are NFC-normalized so visually identical tags
//     address the same entry
package inverse
