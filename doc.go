// Package rebalance provides the functions and types needed to bring a
// personal portfolio back to its target allocation. It is designed to be
// local-first and transparent: every figure it produces can be recomputed by
// hand from the holdings the user entered.
//
// The core functionalities include:
//   - Rebalance Engine: a stateless calculator that turns a list of assets
//     (price, quantity, target percentage) and an optional cash adjustment into
//     an ordered list of buy and sell operations, and projects the holdings
//     that result from applying them.
//   - Input Collection: the boundary between raw user text (Draft) and the
//     resolved numeric Asset, the only form the engine accepts.
//   - Portfolio: the explicit state container owned by the application, that
//     tracks the live asset list, the cash adjustment and whether it changed
//     since the last save.
//   - Snapshot: the single persisted portfolio state, a date and the
//     post-rebalance asset list.
//
// This package serves as the foundational logic for the `rb` command-line
// tool.
package rebalance
