package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// CanonicalURL monta a URL https de um path em um host. Cada segmento é
// escapado, então "?" ou "#" decodificados do path original não viram query
// ou fragmento.
// Exemplo: ("healthbuzzonline.com", "healthy-living/tips") -> "https://healthbuzzonline.com/healthy-living/tips"
func CanonicalURL(host, path string) string {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return fmt.Sprintf("https://%s/%s", host, strings.Join(segments, "/"))
}

// SiteName deriva o nome do site a partir do primeiro rótulo do host
// Exemplo: "healthbuzzonline.com" -> "healthbuzzonline"
func SiteName(host string) string {
	if host == "" {
		return ""
	}
	return strings.Split(host, ".")[0]
}

// WWWHost prefixa o host com "www." quando ainda não tiver o prefixo
func WWWHost(host string) string {
	if host == "" || strings.HasPrefix(strings.ToLower(host), "www.") {
		return host
	}
	return "www." + host
}

// ContainsAny verifica se value contém algum dos termos, ignorando caixa.
// Os termos devem estar em minúsculas.
func ContainsAny(value string, terms []string) bool {
	if value == "" {
		return false
	}

	lowered := strings.ToLower(value)
	for _, term := range terms {
		if term != "" && strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
