package spreadsheet

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"
)

// File is one entry of a bundle.
type File struct {
	Name string
	Data []byte
}

// BundleContentType is the MIME type of Bundle's output.
const BundleContentType = "application/zip"

// Bundle zips files in order. Clashing names get a numeric suffix so no
// workbook is lost.
func Bundle(files []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	seen := make(map[string]int, len(files))

	for _, f := range files {
		name := uniqueName(f.Name, seen)
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("add %s: %w", name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func uniqueName(name string, seen map[string]int) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	ext := path.Ext(name)
	candidate := fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n+1, ext)
	if _, clash := seen[candidate]; clash {
		return uniqueName(candidate, seen)
	}
	seen[candidate] = 1
	return candidate
}
