package content

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var delimiter = []byte("---")

// ErrUnterminatedFrontMatter is returned when the opening delimiter has no
// matching close.
var ErrUnterminatedFrontMatter = errors.New("unterminated front-matter")

// splitFrontMatter separates a leading "---" YAML block from the body.
// Input without an opening delimiter is all body.
func splitFrontMatter(data []byte) (header, body []byte, err error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	first, rest, _ := cutLine(data)
	if !isDelimiter(first) {
		return nil, data, nil
	}

	var block bytes.Buffer
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = cutLine(rest)
		if isDelimiter(line) {
			return block.Bytes(), rest, nil
		}
		block.Write(line)
		block.WriteByte('\n')
	}
	return nil, nil, ErrUnterminatedFrontMatter
}

func parseFrontMatter(data []byte) (FrontMatter, []byte, error) {
	header, body, err := splitFrontMatter(data)
	if err != nil {
		return FrontMatter{}, nil, err
	}

	var fm FrontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return fm, body, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return FrontMatter{}, nil, fmt.Errorf("failed to parse front-matter: %w", err)
	}
	return fm, body, nil
}

// cutLine returns the first line without its terminator (\n or \r\n).
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func isDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \t"), delimiter)
}
