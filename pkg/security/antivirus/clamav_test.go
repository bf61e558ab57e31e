package antivirus

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClamd accepts one INSTREAM session and answers with reply.
func fakeClamd(t *testing.T, reply string) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		if _, err := r.ReadString(0); err != nil {
			return
		}
		var body []byte
		size := make([]byte, 4)
		for {
			if _, err := io.ReadFull(r, size); err != nil {
				return
			}
			n := binary.BigEndian.Uint32(size)
			if n == 0 {
				break
			}
			chunk := make([]byte, n)
			if _, err := io.ReadFull(r, chunk); err != nil {
				return
			}
			body = append(body, chunk...)
		}
		got <- body
		_, _ = conn.Write([]byte(reply + "\x00"))
	}()
	return ln.Addr().String(), got
}

func TestClamAVScanner_Scan(t *testing.T) {
	t.Run("clean stream", func(t *testing.T) {
		addr, got := fakeClamd(t, "stream: OK")
		s := NewClamAVScanner(addr, 2*time.Second)

		res := s.Scan(context.Background(), "cv.pdf", strings.NewReader("%PDF-1.4 hello"))

		assert.False(t, res.Infected)
		assert.NoError(t, res.Error)
		assert.Equal(t, "%PDF-1.4 hello", string(<-got))
	})

	t.Run("infected stream", func(t *testing.T) {
		addr, _ := fakeClamd(t, "stream: Eicar-Signature FOUND")
		s := NewClamAVScanner(addr, 2*time.Second)

		res := s.Scan(context.Background(), "x.txt", strings.NewReader("X5O!P%@AP"))

		assert.True(t, res.Infected)
		assert.Equal(t, "Eicar-Signature", res.ThreatName)
	})

	t.Run("unreachable daemon fails closed", func(t *testing.T) {
		s := NewClamAVScanner("127.0.0.1:1", 200*time.Millisecond)
		res := s.Scan(context.Background(), "x.txt", strings.NewReader("data"))
		assert.True(t, res.Infected)
		assert.Error(t, res.Error)
	})
}

func TestParseReply(t *testing.T) {
	res := parseReply(ScanResult{}, "stream: Size limit exceeded ERROR")
	assert.True(t, res.Infected)
	assert.Error(t, res.Error)
}
