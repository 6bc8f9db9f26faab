// Package party coordinates dining parties: the group membership state
// machine and the per-order payment barrier.
//
// GroupRegistry is the only writer of the membership relation. OrderLedger
// holds the in-flight orders and the members still expected to pay each one.
// PaymentCoordinator records payments against the ledger and blocks each payer
// until the whole party has paid or the settlement timeout elapses.
package party
