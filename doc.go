/*
Package trustee defines the common primitives shared by the escrow engine
packages: addresses and conditions used for deterministic key derivation,
the key-value store interfaces every component persists through, and the
context helpers that carry the trusted clock.

The actual business logic lives in the x/ subpackages. x/ledger keeps
balances, x/escrow holds funds until a quorum of parties signed off on
the payout.
*/
package trustee
