// Package mediavault provides a reusable library for managing uploaded media
// files with pluggable repository and blob storage backends.
//
// Files are classified into a fixed set of kinds by extension, stored under a
// per-kind folder in the blob store, and tracked by a single metadata record.
// The Service interface orchestrates the full lifecycle: upload, typed
// listings, soft delete into a trash area, restore, and permanent delete.
// Implementations of repositories (memory, Postgres) and blob stores (memory,
// filesystem, S3) are provided under subpackages.
//
// A record's Location always names the blob currently holding its bytes:
// moving a record to the trash relocates the blob and rewrites Location in
// the same operation, and restoring does the reverse.
package mediavault
