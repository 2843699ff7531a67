// Package billing owns single-item purchases, access pass and subscription
// checkout, and the Stripe webhook that turns completed payments into
// entitlements.
package billing
