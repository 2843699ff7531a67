// Package media stores uploaded content files and avatars on local disk or
// in an S3 bucket and hands back their public URLs.
package media
