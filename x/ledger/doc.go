/*
Package ledger keeps track of balances.

It is the asset transfer collaborator of the escrow engine: a wallet per
address, holding any mix of the native coin and fungible tokens, with
atomic debit/credit/move operations. Every operation either fully
succeeds or leaves all wallets untouched.
*/
package ledger
