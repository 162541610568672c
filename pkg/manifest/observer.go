package manifest

// Observer receives progress from a scan. Calls are made from the
// goroutine running Scan, in record order.
type Observer interface {
	DirectoryEntered(name string)
	DirectorySkipped(name string)
	FileHashed(rec FileRecord)
}

type NopObserver struct{}

func (NopObserver) DirectoryEntered(string) {}
func (NopObserver) DirectorySkipped(string) {}
func (NopObserver) FileHashed(FileRecord)   {}
