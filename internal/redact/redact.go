// Package redact removes credentials, connection details and other
// sensitive fragments from strings before they are logged.
package redact

import "regexp"

// Placeholders substituted for redacted fragments.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

type rule struct {
	pattern     *regexp.Regexp
	placeholder string
}

// Rules run in order; earlier rules see the unmodified input.
var rules = []rule{
	// scheme://user:pass@ for postgres, redis, nats and friends
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|rediss?|nats|tls|mysql|mongodb(?:\+srv)?|amqps?)://[^@\s/]+@`),
		"$1://" + RedactedCredentialPlaceholder + "@",
	},
	// presigned URL query parameters
	{
		regexp.MustCompile(`(?i)(X-Amz-(?:Signature|Credential|Security-Token))=[^&\s"]+`),
		"$1=" + RedactedKeyPlaceholder,
	},
	// AWS access key IDs
	{
		regexp.MustCompile(`\b(?:AKIA|ASIA|AROA|AIDA)[A-Z0-9]{12,}\b`),
		RedactedKeyPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(aws_secret_access_key|secret_access_key|secretaccesskey)(['"\s:=]+)[A-Za-z0-9/+=]{16,}`),
		"$1$2" + RedactedKeyPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]+['"]?)[^'"&\s]{3,}`),
		"$1$2" + RedactedCredentialPlaceholder,
	},
	{
		regexp.MustCompile(`(?i)(api[_-]?key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`),
		"$1$2" + RedactedKeyPlaceholder,
	},
	{
		regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE)\b[\s\w,*()$.=']+\b(FROM|INTO|SET)\b[^;]*`,
		),
		RedactedSQLPlaceholder,
	},
	// absolute unix paths with at least two segments
	{
		regexp.MustCompile(`(?:^|[\s"'(=])(/[\w.-]+){2,}`),
		" " + RedactedPathPlaceholder,
	},
	{
		regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`),
		RedactedPathPlaceholder,
	},
	// host:port pairs, which appear in dial errors
	{
		regexp.MustCompile(`\b(?:[a-zA-Z0-9-]+\.)*[a-zA-Z0-9-]+:\d{2,5}\b`),
		RedactedHostPlaceholder,
	},
}

// String redacts sensitive information from s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, r := range rules {
		s = r.pattern.ReplaceAllString(s, r.placeholder)
	}
	return s
}

// Error redacts sensitive information from err.Error(). A nil error yields
// an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
