package classify

import (
	"regexp"
	"strings"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// SenderMode selects how the sender classifier buckets messages.
type SenderMode string

const (
	// ModeDomain labels by the sender's mail domain.
	ModeDomain SenderMode = "domain"
	// ModeOrganization labels by a friendly organization name where the
	// domain is recognized, falling back to the raw domain.
	ModeOrganization SenderMode = "organization"
	// ModeIndividual labels by the sender's display name.
	ModeIndividual SenderMode = "individual"
)

// organizationDomains maps well-known mail domains to friendly names.
var organizationDomains = map[string]string{
	"google.com":    "Google",
	"microsoft.com": "Microsoft",
	"apple.com":     "Apple",
	"amazon.com":    "Amazon",
	"facebook.com":  "Meta",
	"linkedin.com":  "LinkedIn",
	"github.com":    "GitHub",
	"slack.com":     "Slack",
	"zoom.us":       "Zoom",
	"dropbox.com":   "Dropbox",
}

var (
	angleAddrRe = regexp.MustCompile(`<([^>]+)>`)
	// \w would be ASCII-only here; spell out the classes so accented
	// display names survive sanitization.
	nameCleanRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
)

const maxNameLen = 50

// SenderInfo extracts the address, domain, and display name from a From
// header. Accepts `Display Name <addr@domain>` and bare `addr@domain`
// shapes; anything without a domain separator yields three empty strings.
func SenderInfo(from string) (addr, domain, name string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", "", ""
	}
	if m := angleAddrRe.FindStringSubmatch(from); m != nil {
		addr = strings.ToLower(strings.TrimSpace(m[1]))
		name = strings.Trim(strings.TrimSpace(from[:strings.Index(from, "<")]), `"`)
	} else if strings.Contains(from, "@") {
		addr = strings.ToLower(from)
		name = addr[:strings.Index(addr, "@")]
	} else {
		return "", "", ""
	}
	at := strings.LastIndex(addr, "@")
	if at == -1 || at == len(addr)-1 {
		return "", "", ""
	}
	return addr, addr[at+1:], name
}

// SenderLabel derives the sender label path for a message under the given
// mode, or false when the From header carries no usable sender.
func SenderLabel(msg gmail.Message, mode SenderMode) (string, bool) {
	addr, domain, name := SenderInfo(msg.Header("From"))
	if domain == "" {
		return "", false
	}
	switch mode {
	case ModeDomain, "":
		return "Senders/Domains/" + domain, true
	case ModeOrganization:
		org, ok := organizationDomains[domain]
		if !ok {
			org = domain
		}
		return "Senders/Organizations/" + org, true
	case ModeIndividual:
		clean := SanitizeName(name)
		if clean == "" {
			clean = addr[:strings.Index(addr, "@")]
		}
		return "Senders/People/" + clean, true
	default:
		return "", false
	}
}

// SanitizeName strips characters unsuitable for a label segment and caps the
// result at 50 runes.
func SanitizeName(name string) string {
	clean := strings.TrimSpace(nameCleanRe.ReplaceAllString(name, ""))
	runes := []rune(clean)
	if len(runes) > maxNameLen {
		runes = runes[:maxNameLen]
		clean = strings.TrimSpace(string(runes))
	}
	return clean
}
