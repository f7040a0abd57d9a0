// Package parser extracts plain text chunks from policy handout files so
// they can join the knowledge corpus alongside the structured records.
package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Chunk is one indexable piece of a parsed file.
type Chunk struct {
	Content string
	Page    int
	ChunkID int
}

const (
	defaultChunkSize    = 1000 // bytes
	defaultChunkOverlap = 200  // bytes
	defaultPage         = 1
)

// ParseFile extracts text from the file and splits it into overlapping
// chunks. Unsupported extensions return an error.
func ParseFile(filePath string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap <= 0 {
		chunkOverlap = defaultChunkOverlap
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath, chunkSize, chunkOverlap)
	case ".docx":
		return parseDOCX(filePath, chunkSize, chunkOverlap)
	case ".xlsx":
		return parseXLSX(filePath, chunkSize, chunkOverlap)
	case ".ods":
		return parseODS(filePath, chunkSize, chunkOverlap)
	case ".md", ".markdown":
		return parseMarkdown(filePath, chunkSize, chunkOverlap)
	case ".txt":
		return parseText(filePath, chunkSize, chunkOverlap)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func parsePDF(filePath string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	for i := 1; i <= reader.NumPage(); i++ {
		pageText, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, buildChunks(pageText, i, chunkSize, chunkOverlap)...)
	}
	return chunks, nil
}

func parseDOCX(filePath string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var text strings.Builder
	for _, paragraph := range strings.Split(content, "\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		text.WriteString(paragraph)
		text.WriteString("\n")
	}
	return buildChunks(text.String(), defaultPage, chunkSize, chunkOverlap), nil
}

func parseXLSX(filePath string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var chunks []Chunk
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		chunks = append(chunks, buildChunks(text.String(), sheetNum+1, chunkSize, chunkOverlap)...)
	}
	return chunks, nil
}

func parseODS(filePath string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []Chunk
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		chunks = append(chunks, buildChunks(text.String(), sheetNum+1, chunkSize, chunkOverlap)...)
	}
	return chunks, nil
}

func parseMarkdown(filePath string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return nil, err
	}
	return buildChunks(stripTags(buf.String()), defaultPage, chunkSize, chunkOverlap), nil
}

func parseText(filePath string, chunkSize, chunkOverlap int) ([]Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return buildChunks(string(data), defaultPage, chunkSize, chunkOverlap), nil
}

// stripTags removes HTML markup left by the markdown renderer, keeping the
// readable text.
func stripTags(s string) string {
	var text strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			text.WriteRune(' ')
		case !inTag:
			text.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(text.String()), " ")
}

func buildChunks(content string, page, chunkSize, chunkOverlap int) []Chunk {
	var chunks []Chunk
	for i, part := range splitContent(content, chunkSize, chunkOverlap) {
		chunks = append(chunks, Chunk{Content: part, Page: page, ChunkID: i + 1})
	}
	return chunks
}

// splitContent slices content into chunks of at most maxChars with the
// given overlap, preferring to break on a space, newline, or period near
// the chunk boundary.
func splitContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)

		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		if chunk := strings.TrimSpace(content[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		start += maxChars - overlapChars
		if start >= contentLen {
			break
		}
	}
	return chunks
}
