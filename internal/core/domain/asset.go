package domain

// Asset references a file held in the cloud asset store.
// ID is the object key; Path is the public URL served to clients.
type Asset struct {
	ID   string `json:"id,omitempty"`
	Path string `json:"path,omitempty"`
}

// Empty reports whether no asset is attached.
func (a Asset) Empty() bool {
	return a.ID == ""
}
