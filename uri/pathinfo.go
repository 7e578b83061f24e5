package uri

import (
	"log/slog"
	"strings"
)

// PathInfo holds the file-like parts of a URI path.
type PathInfo struct {
	Dirname   string `json:"dirname" yaml:"dirname"`
	Basename  string `json:"basename" yaml:"basename"`
	Filename  string `json:"filename" yaml:"filename"`
	Extension string `json:"extension" yaml:"extension"`
}

// ParsePathInfo splits path into directory, base name, file name and extension.
//
//   - Basename is the text after the last '/', empty when path ends with '/'.
//   - Extension is the text after the last '.' of Basename, unless the '.' is its first character.
//   - Filename is Basename without ".Extension".
//   - Dirname is the text before the last '/', "/" when that is the leading one.
//     A path without '/' is its own Dirname.
//
// An empty path gives an empty PathInfo.
func ParsePathInfo(path string) PathInfo {
	if path == "" {
		return PathInfo{}
	}

	var pi PathInfo
	switch i := strings.LastIndexByte(path, '/'); i {
	case -1:
		pi.Dirname, pi.Basename = path, path
	case 0:
		pi.Dirname, pi.Basename = "/", path[1:]
	default:
		pi.Dirname, pi.Basename = path[:i], path[i+1:]
	}

	pi.Filename = pi.Basename
	if i := strings.LastIndexByte(pi.Basename, '.'); i > 0 {
		pi.Filename, pi.Extension = pi.Basename[:i], pi.Basename[i+1:]
	}
	return pi
}

// LogValue implements [slog.LogValuer].
func (pi PathInfo) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dirname", pi.Dirname),
		slog.String("basename", pi.Basename),
		slog.String("filename", pi.Filename),
		slog.String("extension", pi.Extension),
	)
}
