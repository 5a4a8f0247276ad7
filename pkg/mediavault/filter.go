package mediavault

// visible reports whether a record should appear in type-filtered listings.
// Trash is invisible to them.
func visible(m *Media) bool {
	return m.Status != StatusPending
}

// FilterByKind returns the records of the given kind that are not in the
// trash, preserving input order.
func FilterByKind(media []*Media, kind Kind) []*Media {
	result := make([]*Media, 0, len(media))
	for _, m := range media {
		if m.Kind == kind && visible(m) {
			result = append(result, m)
		}
	}
	return result
}

// FilterOther returns the non-trashed records whose kind fell outside the
// recognized extension sets.
func FilterOther(media []*Media) []*Media {
	return FilterByKind(media, KindElse)
}

// FilterTrash returns the records currently in the trash, independent of
// kind, preserving input order.
func FilterTrash(media []*Media) []*Media {
	result := make([]*Media, 0, len(media))
	for _, m := range media {
		if m.Status == StatusPending {
			result = append(result, m)
		}
	}
	return result
}
