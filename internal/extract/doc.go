package extract

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/richardlehane/mscfb"
)

// minPrintableRun drops the short coincidental character runs that binary
// Word structures produce when sieved for text.
const minPrintableRun = 4

// extractDOC reads the WordDocument stream out of the OLE2 compound file and
// recovers the readable character runs. Full binary Word parsing (piece
// tables, the FIB) is out of proportion for resume text; run recovery is what
// the rest of the pipeline needs.
func extractDOC(data []byte) (string, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	var stream []byte
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "WordDocument" {
			continue
		}
		stream, err = io.ReadAll(entry)
		if err != nil {
			return "", err
		}
		break
	}
	if stream == nil {
		return "", errors.New("WordDocument stream not found")
	}

	text := printableRuns(stream)
	if text == "" {
		return "", errors.New("no readable text in WordDocument stream")
	}
	return text, nil
}

// printableRuns scans the stream twice, once as single-byte characters and
// once as little-endian UTF-16, and keeps whichever reading recovers more
// plain text. Word stores either encoding depending on the document's
// content. Single-byte text misread as UTF-16 decodes into CJK codepoints,
// so the readings are ranked by ASCII content rather than raw length.
func printableRuns(stream []byte) string {
	ansi := runsFromBytes(stream)
	wide := runsFromUTF16(stream)
	if asciiScore(wide) > asciiScore(ansi) {
		return wide
	}
	return ansi
}

func asciiScore(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x20 && r < 0x7f {
			n++
		}
	}
	return n
}

func runsFromBytes(stream []byte) string {
	var out strings.Builder
	var run []byte
	flush := func() {
		trimmed := bytes.TrimSpace(run)
		if len(trimmed) >= minPrintableRun {
			if out.Len() > 0 {
				out.WriteString("\n")
			}
			out.Write(trimmed)
		}
		run = run[:0]
	}
	for _, b := range stream {
		if printableByte(b) {
			run = append(run, b)
			continue
		}
		if b == '\r' || b == '\n' || b == 0x0b {
			flush()
			continue
		}
		flush()
	}
	flush()
	return strings.TrimSpace(out.String())
}

func runsFromUTF16(stream []byte) string {
	if len(stream) < 2 {
		return ""
	}
	var out strings.Builder
	var run []uint16
	flush := func() {
		if len(run) >= minPrintableRun {
			s := strings.TrimSpace(string(utf16.Decode(run)))
			if s != "" {
				if out.Len() > 0 {
					out.WriteString("\n")
				}
				out.WriteString(s)
			}
		}
		run = run[:0]
	}
	for i := 0; i+1 < len(stream); i += 2 {
		u := uint16(stream[i]) | uint16(stream[i+1])<<8
		r := rune(u)
		if u >= 0xd800 && u < 0xe000 {
			flush()
			continue
		}
		if unicode.IsPrint(r) && r != unicode.ReplacementChar {
			run = append(run, u)
			continue
		}
		if r == '\r' || r == '\n' || r == 0x0b {
			flush()
			continue
		}
		flush()
	}
	flush()
	return strings.TrimSpace(out.String())
}

func printableByte(b byte) bool {
	return (b >= 0x20 && b < 0x7f) || b == '\t'
}
