package api

import (
	"io"
	"mime/multipart"

	"github.com/iranzi17/ibc-15kv-reporting/internal/cache"
)

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func upload(name string, data []byte) cache.Upload {
	return cache.Upload{Name: name, Data: data}
}
