// Package account owns creator and consumer accounts: registration with the
// adult-age gate, credential login, profile edits, and the account projection
// other contexts read through contracts/gen/identity/v1.
package account
