package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents different catalog file formats
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatJSON               // {"products": [...]}
	FormatTOML               // [[products]] tables
	FormatMsgpack            // msgpack-encoded envelope
)

// FormatInfo contains metadata about a catalog file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatJSON: {
		Format:      FormatJSON,
		Description: "JSON catalog",
		Extensions:  []string{".json"},
		MinSize:     2, // {}
	},
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML catalog",
		Extensions:  []string{".toml"},
		MinSize:     1,
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "MessagePack catalog",
		Extensions:  []string{".msgpack", ".mpk"},
		MinSize:     1, // fixmap header
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatForPath picks the format from the file extension.
func FormatForPath(filename string) FileFormat {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if ext == e {
				return format
			}
		}
	}
	return FormatUnknown
}

// DetectFileFormat checks that filename exists, has a known extension and is large
// enough for that format.
func DetectFileFormat(filename string) (FileFormat, error) {
	format := FormatForPath(filename)
	if format == FormatUnknown {
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	info := supportedFormats[format]
	if fileInfo.Size() < info.MinSize {
		return FormatUnknown, fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), info.Description, info.MinSize)
	}

	log.Debugf("Catalog file %s detected as %s", filename, info.Description)
	return format, nil
}

// GetFormatInfo returns information about a specific format
func GetFormatInfo(format FileFormat) (FormatInfo, bool) {
	info, exists := supportedFormats[format]
	return info, exists
}
