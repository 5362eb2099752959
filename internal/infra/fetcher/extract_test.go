package fetcher

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"testing"
)

func TestExtractParagraphs_SelectorOrder(t *testing.T) {
	html := `<html><body>
		<div class="promo"><p>Subscribe today to read every story without limits at all.</p></div>
		<div itemprop="articleBody">
			<p>The first body paragraph is long enough to be kept by the heuristic.</p>
			<p>Short.</p>
			<p>The second   body paragraph
			   spans lines and has extra whitespace inside it.</p>
		</div>
		<script>var p = "<p>not text</p>";</script>
	</body></html>`

	got, err := extractParagraphs([]byte(html))
	if err != nil {
		t.Fatalf("extractParagraphs() error = %v", err)
	}

	want := "The first body paragraph is long enough to be kept by the heuristic.\n\n" +
		"The second body paragraph spans lines and has extra whitespace inside it."
	if got != want {
		t.Errorf("extractParagraphs() =\n%q\nwant\n%q", got, want)
	}
}

func TestExtractParagraphs_FallsBackToAnyParagraph(t *testing.T) {
	html := `<html><body><div><p>A plain paragraph outside any article container element.</p></div></body></html>`

	got, err := extractParagraphs([]byte(html))
	if err != nil {
		t.Fatalf("extractParagraphs() error = %v", err)
	}
	if !strings.HasPrefix(got, "A plain paragraph") {
		t.Errorf("unexpected text %q", got)
	}
}

func TestExtractParagraphs_Nothing(t *testing.T) {
	_, err := extractParagraphs([]byte(`<html><body><nav><p>Home and other navigation links for the site</p></nav></body></html>`))
	if err == nil {
		t.Error("expected error when only navigation text exists")
	}
}

func TestExtractText_Empty(t *testing.T) {
	_, err := extractText([]byte(`<html><body></body></html>`), &url.URL{Scheme: "http", Host: "example.com"})
	if !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestNormalizeText(t *testing.T) {
	in := "\n\n  First line  \n\n\n\tSecond line\n   \nThird\n\n"
	want := "First line\n\nSecond line\n\nThird"
	if got := normalizeText(in); got != want {
		t.Errorf("normalizeText() = %q, want %q", got, want)
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.0.10", true},
		{"169.254.1.1", true},
		{"::1", true},
		{"fd00::1", true},
		{"fe80::1", true},
		{"8.8.8.8", false},
		{"2001:4860:4860::8888", false},
	}
	for _, tt := range tests {
		if got := isPrivateIP(net.ParseIP(tt.ip)); got != tt.want {
			t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestValidateURL(t *testing.T) {
	u, err := validateURL("https://example.com/a?b=c", false)
	if err != nil {
		t.Fatalf("validateURL() error = %v", err)
	}
	if u.Hostname() != "example.com" {
		t.Errorf("unexpected host %q", u.Hostname())
	}

	if _, err := validateURL("https:///nohost", false); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL for empty host, got %v", err)
	}
}
