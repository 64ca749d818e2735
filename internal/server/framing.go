package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mood-server/pkg/logger"
)

// framer собирает JSON-объекты из строк.
// Объект может прийти разрезанным на несколько строк: строки копятся,
// пока накопленное не станет валидным JSON.
type framer struct {
	r       *bufio.Reader
	max     int
	pending []byte
}

func newFramer(r io.Reader, maxBytes int) *framer {
	return &framer{r: bufio.NewReader(r), max: maxBytes}
}

// Next возвращает следующий полный объект.
func (f *framer) Next() ([]byte, error) {
	for {
		line, tooLong, err := f.readLine()
		if err != nil {
			return nil, err
		}
		if tooLong {
			logger.Log.WithField("limit", f.max).Warn("Frame too large, discarding")
			f.pending = f.pending[:0]
			continue
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if len(f.pending)+len(line)+1 > f.max {
			logger.Log.WithField("limit", f.max).Warn("Pending frame overflow, discarding")
			f.pending = f.pending[:0]
		}
		if len(f.pending) > 0 {
			f.pending = append(f.pending, '\n')
		}
		f.pending = append(f.pending, line...)

		if json.Valid(f.pending) {
			return f.take(f.pending), nil
		}
		// Свежая строка сама по себе валидна: хвост предыдущего мусора выкидываем
		if len(f.pending) > len(line) && json.Valid(line) {
			return f.take(line), nil
		}
	}
}

func (f *framer) take(b []byte) []byte {
	out := bytes.Clone(b)
	f.pending = f.pending[:0]
	return out
}

// readLine читает строку до '\n'. Строка длиннее лимита дочитывается
// до конца и помечается tooLong.
func (f *framer) readLine() ([]byte, bool, error) {
	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, err := f.r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > f.max {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == nil:
			return line, tooLong, nil
		case errors.Is(err, io.EOF) && len(line) > 0:
			// Последняя строка без перевода строки
			return line, false, nil
		default:
			return nil, false, err
		}
	}
}
