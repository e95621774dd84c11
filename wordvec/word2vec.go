package wordvec

import "bufio"
import "encoding/binary"
import "io"
import "math"
import "strconv"
import "strings"

import "github.com/pkg/errors"

// ReadText parses the word2vec text format: an optional "count dim" header
// followed by lines of a token and its components separated by spaces.
func ReadText(r io.Reader) (*Memory, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16<<20)
	var m *Memory
	var declared = -1
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if m == nil && len(fields) == 2 {
			count, err1 := strconv.Atoi(fields[0])
			dim, err2 := strconv.Atoi(fields[1])
			if err1 == nil && err2 == nil {
				if dim <= 0 {
					return nil, errors.Errorf("line %d: invalid dimension %d", lineNo, dim)
				}
				m = NewMemory(dim)
				declared = count
				continue
			}
		}
		if m == nil {
			m = NewMemory(len(fields) - 1)
			if m.dim <= 0 {
				return nil, errors.Errorf("line %d: no vector components", lineNo)
			}
		}
		if len(fields)-1 != m.dim {
			return nil, errors.Errorf("line %d: %d components, want %d", lineNo, len(fields)-1, m.dim)
		}
		vec := make([]float32, m.dim)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", lineNo)
			}
			vec[i] = float32(v)
		}
		if err := m.Add(fields[0], vec); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("empty word vector table")
	}
	if declared >= 0 && declared != m.Len() {
		return nil, errors.Errorf("header declares %d tokens, read %d", declared, m.Len())
	}
	return m, nil
}

// WriteText writes m in the word2vec text format with a header line.
func WriteText(w io.Writer, m *Memory) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strconv.Itoa(m.Len()) + " " + strconv.Itoa(m.dim) + "\n"); err != nil {
		return err
	}
	var err error
	m.Each(func(token string, vec []float32) bool {
		if _, err = bw.WriteString(token); err != nil {
			return false
		}
		for _, v := range vec {
			if _, err = bw.WriteString(" " + strconv.FormatFloat(float64(v), 'g', -1, 32)); err != nil {
				return false
			}
		}
		_, err = bw.WriteString("\n")
		return err == nil
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}

// ReadBinary parses the word2vec binary format: a "count dim" header line,
// then per token the token bytes, one space, and dim little-endian float32s.
func ReadBinary(r io.Reader) (*Memory, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	fields := strings.Fields(header)
	if len(fields) != 2 {
		return nil, errors.Errorf("malformed header %q", strings.TrimSpace(header))
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return nil, errors.Errorf("malformed token count %q", fields[0])
	}
	dim, err := strconv.Atoi(fields[1])
	if err != nil || dim <= 0 {
		return nil, errors.Errorf("malformed dimension %q", fields[1])
	}
	m := NewMemory(dim)
	buf := make([]byte, 4*dim)
	for i := 0; i < count; i++ {
		token, err := br.ReadString(' ')
		if err != nil {
			return nil, errors.Wrapf(err, "token %d", i)
		}
		token = strings.TrimLeft(strings.TrimSuffix(token, " "), "\n")
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, errors.Wrapf(err, "vector %d", i)
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*j:]))
		}
		if err := m.Add(token, vec); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// WriteBinary writes m in the word2vec binary format.
func WriteBinary(w io.Writer, m *Memory) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strconv.Itoa(m.Len()) + " " + strconv.Itoa(m.dim) + "\n"); err != nil {
		return err
	}
	buf := make([]byte, 4*m.dim)
	var err error
	m.Each(func(token string, vec []float32) bool {
		if _, err = bw.WriteString(token + " "); err != nil {
			return false
		}
		for j, v := range vec {
			binary.LittleEndian.PutUint32(buf[4*j:], math.Float32bits(v))
		}
		if _, err = bw.Write(buf); err != nil {
			return false
		}
		err = bw.WriteByte('\n')
		return err == nil
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
