package payload

import "bytes"

// Raster image signatures accepted by the normalizer. Detection is by magic
// bytes, not by trusting any caller-declared type.
var (
	pngSig   = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	jpegSig  = []byte{0xff, 0xd8, 0xff}
	gif87Sig = []byte("GIF87a")
	gif89Sig = []byte("GIF89a")
)

// sniffImage returns the MIME type for a known raster signature.
func sniffImage(data []byte) (string, bool) {
	switch {
	case bytes.HasPrefix(data, pngSig):
		return "image/png", true
	case bytes.HasPrefix(data, jpegSig):
		return "image/jpeg", true
	case bytes.HasPrefix(data, gif87Sig), bytes.HasPrefix(data, gif89Sig):
		return "image/gif", true
	default:
		return "", false
	}
}
