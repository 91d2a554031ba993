package notifier

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/dropalert/dropalert/internal/domain"
)

var mailTmpl = template.Must(template.New("mail").Parse(`<html><body>
<h2>{{.Heading}}</h2>
<p><strong>{{.Title}}</strong></p>
<table>
<tr><td>Price</td><td>{{.SalePrice}} <del>{{.MRP}}</del> ({{.Discount}} off)</td></tr>
<tr><td>Condition</td><td>{{.Condition}}</td></tr>
{{if .Storage}}<tr><td>Storage</td><td>{{.Storage}}</td></tr>{{end}}
</table>
<p><a href="{{.URL}}">View product</a></p>
</body></html>
`))

type mailData struct {
	Heading   string
	Title     string
	SalePrice string
	MRP       string
	Discount  string
	Condition string
	Storage   string
	URL       string
}

func heading(kind Kind, p *domain.TrackedProduct) (subjectPrefix, head string) {
	switch kind {
	case KindPriceDrop:
		return "Price drop", fmt.Sprintf("The price dropped to %s!", formatINR(p.SalePrice))
	case KindRestock:
		return "Back in stock", "This product is back in stock."
	default:
		return "Now tracking", "We are now tracking this product for you."
	}
}

// renderMail builds the subject and HTML body for one notification.
func renderMail(kind Kind, p *domain.TrackedProduct) (subject, html string, err error) {
	prefix, head := heading(kind, p)
	subject = fmt.Sprintf("%s: %s", prefix, p.Title)

	var b strings.Builder
	err = mailTmpl.Execute(&b, mailData{
		Heading:   head,
		Title:     p.Title,
		SalePrice: formatINR(p.SalePrice),
		MRP:       formatINR(p.MRP),
		Discount:  p.Discount,
		Condition: string(p.Condition),
		Storage:   p.Storage,
		URL:       p.URL,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return subject, b.String(), nil
}

// renderText builds the plain-text variant used for telegram.
func renderText(kind Kind, p *domain.TrackedProduct) string {
	prefix, _ := heading(kind, p)
	return fmt.Sprintf("%s: %s\n%s (%s off)\n%s",
		prefix, p.Title, formatINR(p.SalePrice), p.Discount, p.URL)
}

// formatINR renders whole rupees with Indian digit grouping: 1234567 becomes
// ₹12,34,567.
func formatINR(v int) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return "₹" + s
	}
	head := s[:len(s)-3]
	tail := s[len(s)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return "₹" + strings.Join(groups, ",") + "," + tail
}
