package pipeline

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the asset key (relpath without extension).
	Key string
	// Format is the normalized source format (png, jpeg, webp, gif, bmp, tiff, rgba).
	Format string
	// Size is the file size in bytes.
	Size int64
}

// imageFormats maps recognized extensions to normalized format names.
var imageFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".webp": "webp",
	".gif":  "gif",
	".bmp":  "bmp",
	".tiff": "tiff",
	".tif":  "tiff",
}

// rawExt is the extension of buffers written by the rgba encoder.
const rawExt = ".rgba.zst"

// IsRaw reports whether path names a raw .rgba.zst buffer.
func IsRaw(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), rawExt)
}

// sourceExt returns the full image extension of path and its format, or
// ok=false for files that are not images.
func sourceExt(path string) (ext, format string, ok bool) {
	if IsRaw(path) {
		return path[len(path)-len(rawExt):], "rgba", true
	}
	ext = filepath.Ext(path)
	format, ok = imageFormats[strings.ToLower(ext)]
	return ext, format, ok
}

// ScanImages walks inputDir and returns all decodable image sources sorted
// by key. Hidden directories and skipDir (typically the output directory,
// when nested) are not descended into. When several files share a key
// (card.png next to card.rgba.zst) the raw buffer wins, then the first
// file name in sort order.
func ScanImages(inputDir, skipDir string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == skipDir && path != inputDir {
				return filepath.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext, format, ok := sourceExt(path)
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     filepath.ToSlash(strings.TrimSuffix(relPath, ext)),
			Format:  format,
			Size:    info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return dedupeKeys(sources), nil
}

func dedupeKeys(sources []Source) []Source {
	sort.Slice(sources, func(i, j int) bool {
		a, b := sources[i], sources[j]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		if (a.Format == "rgba") != (b.Format == "rgba") {
			return a.Format == "rgba"
		}
		return a.RelPath < b.RelPath
	})
	out := sources[:0]
	for _, s := range sources {
		if len(out) > 0 && out[len(out)-1].Key == s.Key {
			continue
		}
		out = append(out, s)
	}
	return out
}
