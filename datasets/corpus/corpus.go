// Package corpus reads line-oriented corpora in a configured text encoding.
package corpus

import "bufio"
import "io"
import "strings"

import "github.com/pkg/errors"
import "golang.org/x/text/encoding/htmlindex"
import "golang.org/x/text/transform"

import "github.com/neurlang/textcnn/resource"

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "utf-8"

// maxLine bounds a single corpus line.
const maxLine = 1 << 20

// Decoder wraps r so that it yields UTF-8 decoded from the named encoding.
func Decoder(r io.Reader, encoding string) (io.Reader, error) {
	encoding = strings.TrimSpace(encoding)
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, errors.Wrapf(err, "text encoding %q", encoding)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// ReadLines decodes r and returns its lines without line terminators.
func ReadLines(r io.Reader, encoding string) ([]string, error) {
	dr, err := Decoder(r, encoding)
	if err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(dr)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// ReadFile reads the named corpus file.
func ReadFile(name, encoding string) ([]string, error) {
	f, err := resource.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines, err := ReadLines(f, encoding)
	if err != nil {
		return nil, resource.Unreadable(name, err)
	}
	return lines, nil
}
