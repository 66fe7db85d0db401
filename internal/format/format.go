// Package format renders collected records into the final snapshot text.
package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bethington/contx/internal/types"
)

const (
	plainStructureHeading = "Project Structure:"
	plainContentsHeading  = "File Contents:"
	plainFilePrefix       = "File: "
	plainOrderHeading     = "Execute Order:"

	markdownStructureHeading = "# Project Structure"
	markdownContentsHeading  = "# File Contents"
	markdownOrderHeading     = "# Execute Order"
	markdownFence            = "```"

	xmlRootElement      = "project_context"
	xmlStructureElement = "project_structure"
	xmlContentsElement  = "file_contents"
	xmlOrderElement     = "execute_order"
	xmlIndent           = "  "
)

// Render serializes the optional tree, the ordered records, and the optional
// trailing instruction into the requested output format. The result is
// deterministic for identical inputs.
func Render(outputFormat string, treeText string, records []types.FileRecord, trailingInstruction string) (string, error) {
	switch outputFormat {
	case types.FormatPlainText:
		return renderPlainText(treeText, records, trailingInstruction), nil
	case types.FormatMarkdown:
		return renderMarkdown(treeText, records, trailingInstruction), nil
	case types.FormatXML:
		return renderXML(treeText, records, trailingInstruction), nil
	default:
		return "", fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

func renderPlainText(treeText string, records []types.FileRecord, trailingInstruction string) string {
	var builder strings.Builder
	if treeText != "" {
		builder.WriteString(plainStructureHeading + "\n\n")
		builder.WriteString(treeText)
		builder.WriteString("\n\n")
	}
	builder.WriteString(plainContentsHeading + "\n\n")
	for _, record := range records {
		builder.WriteString(plainFilePrefix + record.RelativePath + "\n\n")
		builder.WriteString(record.Content)
		builder.WriteString("\n\n")
	}
	if trailingInstruction != "" {
		builder.WriteString(plainOrderHeading + "\n")
		builder.WriteString(trailingInstruction)
		builder.WriteString("\n")
	}
	return builder.String()
}

func renderMarkdown(treeText string, records []types.FileRecord, trailingInstruction string) string {
	var builder strings.Builder
	if treeText != "" {
		builder.WriteString(markdownStructureHeading + "\n\n")
		builder.WriteString(markdownFence + "\n")
		builder.WriteString(ensureTrailingNewline(treeText))
		builder.WriteString(markdownFence + "\n\n")
	}
	builder.WriteString(markdownContentsHeading + "\n\n")
	for _, record := range records {
		builder.WriteString("## " + record.RelativePath + "\n\n")
		builder.WriteString(markdownFence + languageTag(record.RelativePath) + "\n")
		builder.WriteString(ensureTrailingNewline(record.Content))
		builder.WriteString(markdownFence + "\n\n")
	}
	if trailingInstruction != "" {
		builder.WriteString(markdownOrderHeading + "\n\n")
		builder.WriteString(markdownFence + "\n")
		builder.WriteString(ensureTrailingNewline(trailingInstruction))
		builder.WriteString(markdownFence + "\n")
	}
	return builder.String()
}

func renderXML(treeText string, records []types.FileRecord, trailingInstruction string) string {
	var builder strings.Builder
	builder.WriteString("<" + xmlRootElement + ">\n")
	if treeText != "" {
		builder.WriteString(xmlIndent + "<" + xmlStructureElement + ">\n")
		builder.WriteString(reindent(treeText, xmlIndent+xmlIndent))
		builder.WriteString(xmlIndent + "</" + xmlStructureElement + ">\n")
	}
	builder.WriteString(xmlIndent + "<" + xmlContentsElement + ">\n")
	for _, record := range records {
		builder.WriteString(xmlIndent + xmlIndent + `<file path="` + EscapeXML(record.RelativePath) + `">`)
		builder.WriteString(wrapCDATA(record.Content))
		builder.WriteString("</file>\n")
	}
	builder.WriteString(xmlIndent + "</" + xmlContentsElement + ">\n")
	if trailingInstruction != "" {
		builder.WriteString(xmlIndent + "<" + xmlOrderElement + ">\n")
		builder.WriteString(reindent(EscapeXML(trailingInstruction), xmlIndent+xmlIndent))
		builder.WriteString(xmlIndent + "</" + xmlOrderElement + ">\n")
	}
	builder.WriteString("</" + xmlRootElement + ">\n")
	return builder.String()
}

// EscapeXML translates the five XML special characters in a single pass over
// the input. Each character is translated independently, so already-escaped
// sequences are never double-escaped by repeated substitution.
func EscapeXML(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, character := range text {
		switch character {
		case '&':
			builder.WriteString("&amp;")
		case '<':
			builder.WriteString("&lt;")
		case '>':
			builder.WriteString("&gt;")
		case '\'':
			builder.WriteString("&apos;")
		case '"':
			builder.WriteString("&quot;")
		default:
			builder.WriteRune(character)
		}
	}
	return builder.String()
}

// wrapCDATA wraps content in a CDATA section. A literal "]]>" in the content
// would terminate the section early, so the section is split at each
// occurrence, keeping the payload byte-exact for round-tripping.
func wrapCDATA(content string) string {
	escaped := strings.ReplaceAll(content, "]]>", "]]]]><![CDATA[>")
	return "<![CDATA[" + escaped + "]]>"
}

// languageTag derives a fenced-code-block language tag from the file
// extension, without the leading dot; files without an extension get none.
func languageTag(relativePath string) string {
	extension := filepath.Ext(relativePath)
	return strings.TrimPrefix(extension, ".")
}

// reindent prefixes every line of text with the given indent, dropping a
// single trailing newline before splitting so no phantom blank line appears.
func reindent(text string, indent string) string {
	trimmedText := strings.TrimSuffix(text, "\n")
	if trimmedText == "" {
		return ""
	}
	lines := strings.Split(trimmedText, "\n")
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(indent + line + "\n")
	}
	return builder.String()
}

func ensureTrailingNewline(text string) string {
	if text == "" || strings.HasSuffix(text, "\n") {
		return text
	}
	return text + "\n"
}
