package utils

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizePath junta os segmentos de um path de artigo com "/".
// Segmentos vazios e "." são descartados e cada segmento é normalizado em NFC.
// Exemplo: "/healthy-living//tips/" -> "healthy-living/tips"
func NormalizePath(rawPath string) string {
	if rawPath == "" {
		return ""
	}

	segments := strings.Split(rawPath, "/")
	kept := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" || segment == "." {
			continue
		}
		kept = append(kept, norm.NFC.String(segment))
	}

	return strings.Join(kept, "/")
}
