package service

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// ParseResult is cleaned article text plus the metrics derived from it
type ParseResult struct {
	Text      string
	WordCount int
	Checksum  string
}

// Parser turns the HTML fragments news sources embed in descriptions and
// content into readable markdown text.
type Parser struct {
	converter *md.Converter
}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{converter: md.NewConverter("", true, nil)}
}

// Parse converts content to text. Plain text skips the HTML converter.
func (p *Parser) Parse(content string) (*ParseResult, error) {
	result := &ParseResult{Checksum: Checksum(content)}

	text := content
	if strings.ContainsAny(content, "<&") {
		converted, err := p.converter.ConvertString(content)
		if err != nil {
			return nil, fmt.Errorf("failed to convert html: %w", err)
		}
		text = converted
	}

	result.Text = strings.TrimSpace(text)
	result.WordCount = len(strings.Fields(result.Text))
	return result, nil
}

// Clean is Parse for callers that only want the text. Content that fails to
// convert is returned trimmed.
func (p *Parser) Clean(content string) string {
	res, err := p.Parse(content)
	if err != nil {
		return strings.TrimSpace(content)
	}
	return res.Text
}

// Checksum returns the hex MD5 of s, used to derive stable ids for articles
// that arrive without one.
func Checksum(s string) string {
	hash := md5.Sum([]byte(s))
	return hex.EncodeToString(hash[:])
}

// excerpt shortens text to at most max runes, cutting at a word boundary
func excerpt(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	cut := string(runes[:max])
	if i := strings.LastIndexAny(cut, " \n"); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "..."
}
