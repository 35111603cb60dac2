package calllog

import (
	"regexp"
	"strings"
)

// MaskToken replaces the credential of an Authorization header.
const MaskToken = "Bearer [MASKED]"

type redaction struct {
	pattern     *regexp.Regexp
	replacement string
}

// redactions run in order; narrower key formats come before the generic ones.
var redactions = []redaction{
	{regexp.MustCompile(`Bearer\s+[A-Za-z0-9._~+/=-]+`), MaskToken},
	{regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`), "[REDACTED:api_key]"},
	{regexp.MustCompile(`AIza[A-Za-z0-9_-]{30,}`), "[REDACTED:google_key]"},
	{regexp.MustCompile(`(?i)\b(key|api_key|apikey)=[^&\s"']+`), "${1}=[REDACTED]"},
	{regexp.MustCompile(`password=[^\s&]{3,}`), "password=[REDACTED]"},
	{regexp.MustCompile(`(mysql|redis)://[^\s@/]+@`), "${1}://[REDACTED]@"},
	{regexp.MustCompile(`\b([^\s:/@]+):[^\s@/]+@tcp\(`), "${1}:[REDACTED]@tcp("},
}

// Redact strips known secret shapes from s. It is pattern based and cannot
// recognise a secret with an unknown format; see also MaskHeaders.
func Redact(s string) string {
	if s == "" {
		return s
	}
	for _, r := range redactions {
		s = r.pattern.ReplaceAllString(s, r.replacement)
	}
	return s
}

// MaskHeaders returns a copy of h with any Authorization value replaced by
// MaskToken. The input map is not modified.
func MaskHeaders(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		if strings.EqualFold(k, "Authorization") && v != "" {
			v = MaskToken
		}
		out[k] = v
	}
	return out
}
