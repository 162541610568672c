package pack

// FileRecord describes one hashed file. Field order is the JSON order
// downstream consumers diff against.
type FileRecord struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// FileJob is a regular file found by ListFiles, waiting to be hashed.
type FileJob struct {
	RelPath string
	AbsPath string
}
