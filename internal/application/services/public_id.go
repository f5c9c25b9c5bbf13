package services

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"photo-manager-api/internal/domain/user"
)

const maxBaseNameLen = 64

// genPublicID: "photos/<useruuid-hex>/<YYYYMMDDThhmmss.nnnnnnnnnZ>-<safe-name>"
// The image host derives the format itself, so the extension is dropped.
func genPublicID(userUUID user.UUID, fileName string, now time.Time) string {
	name := sanitizeFileName(fileName)
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" {
		name = "photo"
	}

	return fmt.Sprintf(
		"photos/%s/%s-%s",
		strings.ToLower(strings.ReplaceAll(userUUID.String(), "-", "")),
		now.UTC().Format("20060102T150405.000000000Z"),
		name,
	)
}

// sanitizeFileName make file name ASCII standard
func sanitizeFileName(original string) string {
	if original == "" {
		return "photo"
	}

	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "" || s == "/" {
		return "photo"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := path.Ext(s)
	base := strings.TrimSuffix(s, ext)
	ext = strings.ToLower(ext)
	if !isSafeExt(ext) {
		ext = ""
	}

	//  [a-z0-9] kept, '-', '_', '.', space -> single '-'
	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "photo"
	}

	for utf8.RuneCountInString(base)+len(ext) > maxBaseNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		if size <= 0 || size > len(base) {
			break
		}
		base = base[:len(base)-size]
	}

	return base + ext
}

func isSafeExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 6 {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
