// Package s3 talks to Hetzner Object Storage (S3-compatible) for the
// remote state mirror.
//
// When a state bucket is configured, cluster state is pushed after every
// converge and pulled before one, so a lost working directory does not
// orphan the cluster. The bucket carries an ownership marker object so
// two clusters never write into the same bucket.
package s3
