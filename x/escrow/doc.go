/*
Package escrow implements a multi-party escrow engine.

A buyer locks an amount of a native coin or a fungible token in a holding
account derived from the escrow identity. The funds are paid out to one or
more recipients only when a quorum of detached ed25519 signatures over a
canonical payout message is presented. After the unlock time has passed the
seller alone can release, regardless of the configured quorum. A release
pays out the full escrowed amount in one shot and deletes the record; there
is no partial draw and no refund path.
*/
package escrow
