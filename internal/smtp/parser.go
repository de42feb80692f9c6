package smtp

import (
	"io"
	"regexp"
	"strings"

	"github.com/jhillyerd/enmime"
)

var (
	fromHeaderRegex  = regexp.MustCompile(`^(?:"?([^"<]*)"?\s*)?<?([^<>]+@[^<>]+)>?$`)
	scriptStyleRegex = regexp.MustCompile(`(?i)<(script|style)[^>]*>[\s\S]*?</(script|style)>`)
	tagRegex         = regexp.MustCompile(`<[^>]*>`)

	htmlEntities = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// ParsedEmail is the part of a message that becomes a mail record
type ParsedEmail struct {
	SenderEmail string
	SenderName  string
	Subject     string
	Body        string
}

// ParseEmail parses an email from an io.Reader. The body is the text part
// (enmime derives one for HTML-only messages), falling back to the HTML part
// with tags stripped.
func ParseEmail(r io.Reader) (*ParsedEmail, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedEmail{
		Subject: strings.TrimSpace(env.GetHeader("Subject")),
		Body:    extractBody(env.Text, env.HTML),
	}
	parsed.SenderName, parsed.SenderEmail = parseFromHeader(env.GetHeader("From"))

	return parsed, nil
}

func extractBody(text, html string) string {
	if body := strings.TrimSpace(text); body != "" {
		return body
	}
	if html == "" {
		return ""
	}
	return strings.Join(strings.Fields(stripHTMLTags(html)), " ")
}

// parseFromHeader extracts name and email from a From header
func parseFromHeader(from string) (name, email string) {
	from = strings.TrimSpace(from)
	if from == "" {
		return "", ""
	}

	matches := fromHeaderRegex.FindStringSubmatch(from)
	if len(matches) >= 3 {
		name = strings.Trim(strings.TrimSpace(matches[1]), `"`)
		email = strings.TrimSpace(matches[2])
	} else {
		email = from
	}

	return name, email
}

// stripHTMLTags removes HTML tags from a string
func stripHTMLTags(html string) string {
	html = scriptStyleRegex.ReplaceAllString(html, "")
	html = tagRegex.ReplaceAllString(html, " ")
	return htmlEntities.Replace(html)
}
