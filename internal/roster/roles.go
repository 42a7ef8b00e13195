package roster

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RoleCodes lists every liturgical role the engine can assign.
var RoleCodes = []string{"LIB", "CRU", "MIC", "TUR", "NAV", "CER1", "CER2", "CAM"}

// roleAliases maps long-form or historical spellings to canonical codes.
var roleAliases = map[string]string{
	"CERO1":        "CER1",
	"CERO2":        "CER2",
	"CEROFERARIO1": "CER1",
	"CEROFERARIO2": "CER2",
	"CRUCIFERARIO": "CRU",
	"LIBRIFERO":    "LIB",
	"MICROFONARIO": "MIC",
	"NAVETEIRO":    "NAV",
	"TURIFERARIO":  "TUR",
	"CAMPANARIO":   "CAM",
}

// Communities maps community codes to their display names.
var Communities = map[string]string{
	"MAT": "Matriz",
	"STM": "Sao Tiago Maior",
	"SJT": "Sao Judas Tadeu",
	"SJB": "Sao Joao Batista",
	"DES": "Divino Espirito Santo",
	"NSL": "Nossa Senhora de Lourdes",
}

var communityAliases = map[string]string{
	"DIV": "DES",
}

// GenericRolePrefix marks fallback slots generated for quantities without a
// configured pack. Generic slots carry no capability requirement.
const GenericRolePrefix = "AUX"

var roleSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(RoleCodes))
	for _, code := range RoleCodes {
		set[code] = struct{}{}
	}
	return set
}()

// IsGenericRole reports whether code names a fallback slot rather than a
// configured liturgical role.
func IsGenericRole(code string) bool {
	return strings.HasPrefix(code, GenericRolePrefix)
}

// NormalizeRole resolves aliases and validates a role code.
func NormalizeRole(value string) (string, error) {
	token := StripDiacritics(strings.ToUpper(strings.TrimSpace(value)))
	if canonical, ok := roleAliases[token]; ok {
		token = canonical
	}
	if IsGenericRole(token) {
		return token, nil
	}
	if _, ok := roleSet[token]; !ok {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidRole, value)
	}
	return token, nil
}

// NormalizeRoles normalizes a capability list, dropping duplicates and
// preserving canonical order.
func NormalizeRoles(values []string) ([]string, error) {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		code, err := NormalizeRole(value)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}

// NormalizeCommunity resolves aliases and validates a community code.
func NormalizeCommunity(value string) (string, error) {
	token := StripDiacritics(strings.ToUpper(strings.TrimSpace(value)))
	if canonical, ok := communityAliases[token]; ok {
		token = canonical
	}
	if _, ok := Communities[token]; !ok {
		return "", fmt.Errorf("%w: unknown community %q", ErrInvalidCommunity, value)
	}
	return token, nil
}

var diacriticsFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks so role and name comparisons are
// accent-insensitive.
func StripDiacritics(value string) string {
	out, _, err := transform.String(diacriticsFold, value)
	if err != nil {
		return value
	}
	return out
}

// NormalizeName trims and NFC-normalizes a display name.
func NormalizeName(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

// FoldName upper-cases a name without diacritics, the collation key used for
// roster ordering.
func FoldName(value string) string {
	return strings.ToUpper(StripDiacritics(value))
}
