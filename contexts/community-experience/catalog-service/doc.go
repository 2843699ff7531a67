// Package catalog owns creator content items and decides, per viewer, which
// items and files are unlocked.
package catalog
