// Package customrequest owns paid custom requests from consumers to creators:
// checkout, the creator's accept/decline/deliver decisions, expiry, and the
// refund workflow for requests that were never fulfilled.
package customrequest
