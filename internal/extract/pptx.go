package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// A pptx file is a zip of XML parts; visible text lives in the <a:t> runs of
// ppt/slides/slideN.xml. Legacy binary .ppt files are not zip archives and
// fail at open.
func extractSlides(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read presentation: %w", err)
	}

	var slides []*zip.File
	for _, f := range archive.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	// Presentation order is the numeric suffix; a lexicographic sort would
	// put slide10.xml before slide2.xml.
	sort.Slice(slides, func(i, j int) bool { return slideNumber(slides[i].Name) < slideNumber(slides[j].Name) })

	var b strings.Builder
	for _, slide := range slides {
		rc, err := slide.Open()
		if err != nil {
			return "", fmt.Errorf("open slide %s: %w", slide.Name, err)
		}
		texts, err := slideTextRuns(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("parse slide %s: %w", slide.Name, err)
		}
		for _, t := range texts {
			b.WriteString(t)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func slideNumber(name string) int {
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, "ppt/slides/slide"), ".xml"))
	if err != nil {
		return 0
	}
	return n
}

// slideTextRuns pulls every DrawingML text run out of one slide document.
func slideTextRuns(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	var texts []string
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "t" {
			continue
		}
		var run string
		if err := decoder.DecodeElement(&run, &start); err != nil {
			return nil, err
		}
		texts = append(texts, run)
	}
	return texts, nil
}
