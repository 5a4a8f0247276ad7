package mediavault

import (
	"path"
	"strings"
)

// Kind is the coarse media category derived from a filename's extension.
type Kind string

// Media kind constants (typed).
const (
	KindImage Kind = "image"
	KindText  Kind = "text"
	KindAudio Kind = "audio"
	KindVideo Kind = "video"
	KindPDF   Kind = "pdf"
	KindElse  Kind = "else"
)

// TrashFolder is the storage prefix for soft-deleted blobs.
const TrashFolder = "corbeille/"

// kindByExtension is the single dispatch table for classification. Extensions
// are stored lowercase without the leading dot.
var kindByExtension = map[string]Kind{
	"png":  KindImage,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"gif":  KindImage,
	"txt":  KindText,
	"mp3":  KindAudio,
	"mp4":  KindVideo,
	"pdf":  KindPDF,
}

// folderByKind maps each kind to its upload folder in the blob store.
var folderByKind = map[Kind]string{
	KindImage: "images/",
	KindText:  "text/",
	KindAudio: "music/",
	KindVideo: "video/",
	KindPDF:   "pdf/",
	KindElse:  "else/",
}

// ClassifyFilename maps a filename to a media kind by its extension.
// The match is case-insensitive; a missing or unknown extension yields
// KindElse. Every input produces a kind.
func ClassifyFilename(filename string) Kind {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		return KindElse
	}
	if kind, ok := kindByExtension[strings.ToLower(ext)]; ok {
		return kind
	}
	return KindElse
}

// IsValid reports whether k is one of the enumerated media kinds.
func (k Kind) IsValid() bool {
	_, ok := folderByKind[k]
	return ok
}

// Folder returns the blob-store prefix for media of this kind. Unknown kinds
// fall back to the KindElse folder.
func (k Kind) Folder() string {
	if folder, ok := folderByKind[k]; ok {
		return folder
	}
	return folderByKind[KindElse]
}

// ObjectKey returns the blob key for a filename of this kind.
func (k Kind) ObjectKey(filename string) string {
	return k.Folder() + filename
}

// TrashKey returns the blob key a filename occupies while in the trash.
func TrashKey(filename string) string {
	return TrashFolder + filename
}

// ValidFilename reports whether a name is safe to use as a media name and as
// the filename segment of a blob key. Path separators and dot segments are
// rejected: on path-based backends they would let an upload escape the
// storage root.
func ValidFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
