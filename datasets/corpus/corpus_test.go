package corpus

import "bytes"
import "os"
import "path/filepath"
import "strings"
import "testing"

import "github.com/pkg/errors"
import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"
import "golang.org/x/text/encoding/simplifiedchinese"

import "github.com/neurlang/textcnn/resource"

func TestReadLinesUTF8(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a one\r\nb two\n\nc three"), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a one", "b two", "", "c three"}, lines)
}

func TestReadLinesGBK(t *testing.T) {
	raw, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("食品 苹果派\n玩具 积木\n"))
	require.NoError(t, err)
	lines, err := ReadLines(bytes.NewReader(raw), "gbk")
	require.NoError(t, err)
	assert.Equal(t, []string{"食品 苹果派", "玩具 积木"}, lines)
}

func TestUnknownEncoding(t *testing.T) {
	_, err := ReadLines(strings.NewReader("x y"), "klingon-8")
	assert.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "train.txt"), "utf-8")
	assert.True(t, errors.Is(err, resource.ErrNotFound))
}

func TestReadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "train.txt")
	require.NoError(t, os.WriteFile(name, []byte("food pie\ntoys car\n"), 0o644))
	lines, err := ReadFile(name, "UTF8")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}
