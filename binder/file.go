package binder

import (
	"mime"
	"net/textproto"
	"path/filepath"
)

// FileUpload is an uploaded file held in memory: the client's filename, the
// byte size, the part's MIME header and the content itself.
type FileUpload struct {
	Filename string
	Size     int64
	Header   textproto.MIMEHeader
	Content  []byte
}

// ContentType returns the MIME type of the uploaded file. It prefers the
// declared Content-Type header and falls back to the filename extension;
// content is never sniffed.
func (f FileUpload) ContentType() string {
	if ct := f.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err == nil {
			return mediaType
		}
	}
	return mime.TypeByExtension(filepath.Ext(f.Filename))
}

// FileFromPart adapts a decoded multipart part into a FileUpload.
func FileFromPart(p Part) FileUpload {
	return FileUpload{
		Filename: p.Filename,
		Size:     int64(len(p.Data)),
		Header:   p.Header,
		Content:  p.Data,
	}
}
