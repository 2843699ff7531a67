// Package moderationservice owns user reports and derives creator suspension
// and verification flags from them.
package moderationservice
