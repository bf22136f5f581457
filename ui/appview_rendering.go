package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mattn/go-runewidth"
	log "github.com/sirupsen/logrus"

	"chatwire/model"
)

var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

const (
	// go-term-markdown prefixes code block lines with this bar
	codeBar = "┃"

	ansiReset    = "\x1b[0m"
	ansiRed      = "\x1b[31m"
	ansiDarkGray = "\x1b[90m"
	ansiGreenBld = "\x1b[32;1m"
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	messages := a.store.Messages()
	if len(messages) == 0 && !a.store.Busy() {
		a.viewport.SetContent(DimStyle.Render("No messages yet. Say hello!"))
		return
	}

	textWidth := a.width - 2
	var content strings.Builder

	for _, msg := range messages {
		timestamp := DimStyle.Render(msg.CreatedAt.Format("[15:04]"))

		switch {
		case msg.Role == model.RoleUser:
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), wrapText(msg.Text, textWidth)))
		case msg.Failed:
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, FailedStyle.Render("Assistant"), FailedStyle.Render(wrapText(msg.Text, textWidth))))
		default:
			body, ok := a.rendered[msg.ID]
			if !ok {
				body = wrapText(msg.Text, textWidth)
			}
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, AssistantStyle.Render("Assistant"), body))
		}
	}

	if a.store.Busy() {
		timestamp := DimStyle.Render(time.Now().Format("[15:04]"))
		content.WriteString(fmt.Sprintf("%s %s\n%s Thinking...\n\n", timestamp, AssistantStyle.Render("Assistant"), a.loadingSpinner.View()))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(timestamp, role, content string) string {
	bar := ansiGreenBld + "┃" + ansiReset

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))
	for _, line := range strings.Split(content, "\n") {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}
	result.WriteString("\n")

	return result.String()
}

// wrapText wraps each line to width display cells. Wide runes (CJK, emoji)
// count as two cells.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if runewidth.StringWidth(line) > width {
			lines[i] = runewidth.Wrap(line, width)
		}
	}
	return strings.Join(lines, "\n")
}

// truncate cuts s to width display cells with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// renderMarkdown renders an assistant reply for a terminal of the given width.
func renderMarkdown(content string, width int) string {
	if width < 20 {
		width = 20
	}

	// Autolink stays off so URLs remain plain text the terminal can detect
	content = mdLinkRegex.ReplaceAllString(content, "$2")
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width-4, 0)
	rendered := string(gomarkdown.Render(p.Parse([]byte(content)), r))

	rendered = inlineCodeRegex.ReplaceAllString(rendered, ansiRed+"$1"+ansiReset)
	rendered = colorURLs(rendered)
	rendered = frameCodeBlocks(rendered, width)
	return strings.TrimRight(rendered, "\n")
}

func (a AppView) renderMarkdownAsync(id, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		start := time.Now()
		rendered := renderMarkdown(content, width)
		log.WithFields(log.Fields{
			"component": "ui",
			"chars":     len(content),
			"duration":  time.Since(start),
		}).Debug("markdown rendered")

		return markdownRenderedMsg{
			MessageID: id,
			Width:     width,
			Rendered:  rendered,
		}
	}
}

func colorURLs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Code block lines keep their highlighting
		if !strings.Contains(line, codeBar) {
			lines[i] = urlRegex.ReplaceAllString(line, ansiRed+"$1"+ansiReset)
		}
	}
	return strings.Join(lines, "\n")
}

// frameCodeBlocks replaces the bar prefix of code lines with a horizontal
// frame above and below the block.
func frameCodeBlocks(s string, width int) string {
	ruleLen := width - 4
	if ruleLen < 8 {
		ruleLen = 8
	}
	label := "[code]"
	left := (ruleLen - len(label)) / 2
	top := ansiDarkGray + strings.Repeat("━", left) + ansiReset + label +
		ansiDarkGray + strings.Repeat("━", ruleLen-len(label)-left) + ansiReset
	bottom := ansiDarkGray + strings.Repeat("━", ruleLen) + ansiReset

	var result []string
	inBlock := false
	for _, line := range strings.Split(s, "\n") {
		isCode := strings.Contains(line, codeBar)
		switch {
		case isCode && !inBlock:
			inBlock = true
			result = append(result, "", top, "")
		case !isCode && inBlock:
			inBlock = false
			result = append(result, "", bottom, "")
		}
		if isCode {
			line = stripCodeBar(line)
		}
		result = append(result, line)
	}
	if inBlock {
		result = append(result, "", bottom, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBar(line string) string {
	idx := strings.Index(line, codeBar)
	if idx < 0 {
		return line
	}
	rest := line[idx+len(codeBar):]
	return strings.TrimPrefix(rest, " ")
}
