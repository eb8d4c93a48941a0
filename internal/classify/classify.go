// Package classify derives candidate label paths from message metadata.
// Classifiers are pure: they never touch the network, and each one fails
// soft, yielding nothing for input it cannot parse.
package classify

import (
	"net/mail"

	"github.com/joshsymonds/sortmate/internal/gmail"
)

// Options selects which classifiers run for a message.
type Options struct {
	Date     bool
	Sender   SenderOptions
	Keywords KeywordOptions
}

// SenderOptions configures the sender classifier.
type SenderOptions struct {
	Enabled bool
	Mode    SenderMode
}

// KeywordOptions configures the keyword classifier. A nil Categories slice
// means the built-in defaults.
type KeywordOptions struct {
	Enabled    bool
	Categories []Category
}

// DefaultOptions enables date labeling only, the minimal behavior.
func DefaultOptions() Options {
	return Options{
		Date:     true,
		Sender:   SenderOptions{Mode: ModeDomain},
		Keywords: KeywordOptions{},
	}
}

// FormatDate parses an RFC 5322 Date header into its year and three-letter
// month abbreviation. ok is false when the header cannot be parsed.
func FormatDate(header string) (year, month string, ok bool) {
	t, err := mail.ParseDate(header)
	if err != nil {
		return "", "", false
	}
	return t.Format("2006"), t.Format("Jan"), true
}

// DateLabel derives the "<year>/<month>" label path for a message, or false
// when the Date header is missing or unparseable. Parse failure skips date
// labeling for the whole message; there are no partial date labels.
func DateLabel(msg gmail.Message) (string, bool) {
	header := msg.Header("Date")
	if header == "" {
		return "", false
	}
	year, month, ok := FormatDate(header)
	if !ok {
		return "", false
	}
	return year + "/" + month, true
}

// Plan returns every label path the enabled classifiers derive for msg, in
// the fixed order date, sender, keywords. Empty results are dropped.
func Plan(msg gmail.Message, opts Options) []string {
	var paths []string
	if opts.Date {
		if p, ok := DateLabel(msg); ok {
			paths = append(paths, p)
		}
	}
	if opts.Sender.Enabled {
		if p, ok := SenderLabel(msg, opts.Sender.Mode); ok {
			paths = append(paths, p)
		}
	}
	if opts.Keywords.Enabled {
		paths = append(paths, KeywordLabels(msg, opts.Keywords.Categories)...)
	}
	return paths
}
