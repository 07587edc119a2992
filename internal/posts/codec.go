package posts

import (
	"fmt"
	"strings"
	"time"
)

// authorPrefix marks the author-declaration line at the top of a post file.
const authorPrefix = "Author: "

// Post is a content item parsed from its file.
type Post struct {
	Filename string
	Title    string
	Author   string // recorded at creation time; empty when unknown
	Body     string
	ModTime  time.Time
}

// Marshal produces the on-disk representation of a post:
//
//	Author: <author>
//
//	# <title>
//
//	<body>
func Marshal(author, title, body string) []byte {
	return []byte(fmt.Sprintf("%s%s\n\n# %s\n\n%s", authorPrefix, author, title, body))
}

// Parse decodes raw post bytes. It never fails: a missing author line means
// an unknown author, a missing title line falls back to a filename-derived
// title with the remaining text kept whole as the body.
func Parse(filename string, data []byte) Post {
	p := Post{Filename: filename}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], authorPrefix) {
		p.Author = strings.TrimSpace(strings.TrimPrefix(lines[0], authorPrefix))
		lines = lines[1:]
	}

	titleIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		p.Title = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "# "))
		titleIdx = i
		break
	}

	if titleIdx < 0 {
		p.Title = TitleFromFilename(filename)
		p.Body = strings.TrimSpace(strings.Join(lines, "\n"))
		return p
	}

	p.Body = strings.TrimSpace(strings.Join(lines[titleIdx+1:], "\n"))
	return p
}
