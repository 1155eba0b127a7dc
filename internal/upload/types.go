package upload

// Variants holds the size-variant URLs the image host derives for one upload.
type Variants struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	Small     string `json:"small"`
	Medium    string `json:"medium"`
	Large     string `json:"large"`
	Gallery   string `json:"gallery"`
}

// Image describes a stored image as returned by the upload endpoints.
type Image struct {
	PublicID         string   `json:"publicId"`
	URL              string   `json:"url"`
	Variants         Variants `json:"variants"`
	OriginalFilename string   `json:"originalFilename,omitempty"`
	Width            int      `json:"width,omitempty"`
	Height           int      `json:"height,omitempty"`
	Format           string   `json:"format,omitempty"`
	Bytes            int64    `json:"bytes,omitempty"`
}

// File is one file to send in a multipart upload.
type File struct {
	Name    string
	Content []byte
}

// ArtworkContext carries the optional grouping hints accepted by the
// artwork-scoped upload endpoint.
type ArtworkContext struct {
	Title    string
	Category string
}

type singleEnvelope struct {
	Image Image `json:"image"`
}

type multiEnvelope struct {
	Images []Image `json:"images"`
}
