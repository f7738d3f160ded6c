package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeFileNameChars = regexp.MustCompile(`[^A-Za-z0-9.\-]`)

// SanitizeFileName replaces every character outside [A-Za-z0-9.-] with "_".
//
// Directory parts are dropped before replacing, so "a/b.png" becomes "b.png"
// and not "a_b.png". A client-supplied path never shapes the object key.
func SanitizeFileName(fileName string) string {
	name := strings.TrimSpace(fileName)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" {
		return "file"
	}
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}

// GenerateKey builds uploads/{userId}/{unixMillis}-{sanitizedFileName}.
func GenerateKey(userID, fileName string, now time.Time) string {
	return fmt.Sprintf("uploads/%s/%d-%s", userID, now.UnixMilli(), SanitizeFileName(fileName))
}

// OwnedBy reports whether key was generated for userID.
func OwnedBy(key, userID string) bool {
	return strings.HasPrefix(key, "uploads/"+userID+"/")
}
