package packer

import (
	"path/filepath"
	"regexp"
	"strings"
)

// boilerplateSuffix ends the description a photo site generates for bulk
// uploads. Such descriptions carry no information about the image.
const boilerplateSuffix = " photos to Flickr."

var (
	cameraTokens = []string{"img", "dcim", "dsc", "untitled"}
	// sizeVariant matches the suffix photo sites append to resized copies,
	// as in 1234_abcd_b.jpg.
	sizeVariant = regexp.MustCompile(`_[a-z]\.`)
)

// cleanTitle returns title, or "" when it is a camera generated name. After
// removing common camera prefixes a title must be less than half digits.
func cleanTitle(title string) string {
	stripped := strings.ToLower(title)
	for _, token := range cameraTokens {
		stripped = strings.ReplaceAll(stripped, token, "")
	}

	digits := 0
	for _, r := range stripped {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits*2 < len(stripped) {
		return title
	}
	return ""
}

func cleanDescription(description string) string {
	if strings.HasSuffix(description, boilerplateSuffix) {
		return ""
	}
	return description
}

// isCanonical reports whether the file name at path is an original upload
// rather than a resized variant.
func isCanonical(path string) bool {
	return !sizeVariant.MatchString(filepath.Base(path))
}

// titleFromPath derives a title from the file name without extension.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
