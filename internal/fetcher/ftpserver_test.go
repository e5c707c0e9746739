package fetcher

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeFTPServer speaks just enough FTP for jlaffaye/ftp to log in and RETR
// a file in passive mode.
type fakeFTPServer struct {
	listener net.Listener
	files    map[string]string
	wg       sync.WaitGroup

	mu    sync.Mutex
	users []string
}

func newFakeFTPServer(t *testing.T, files map[string]string) *fakeFTPServer {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeFTPServer{listener: ln, files: files}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(s.close)
	return s
}

func (s *fakeFTPServer) addr() string {
	return s.listener.Addr().String()
}

func (s *fakeFTPServer) logins() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.users...)
}

func (s *fakeFTPServer) close() {
	s.listener.Close() //nolint:errcheck
	s.wg.Wait()
}

func (s *fakeFTPServer) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.handle(conn)
	}
}

func (s *fakeFTPServer) handle(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close() //nolint:errcheck
	conn.SetDeadline(time.Now().Add(10 * time.Second)) //nolint:errcheck

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	reply := func(format string, args ...any) {
		fmt.Fprintf(w, format+"\r\n", args...) //nolint:errcheck
		w.Flush()                              //nolint:errcheck
	}

	reply("220 fake ftp ready")

	var (
		data net.Listener
		user string
	)
	defer func() {
		if data != nil {
			data.Close() //nolint:errcheck
		}
	}()

	openData := func() (int, bool) {
		var err error
		data, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			reply("425 can't open data connection")
			return 0, false
		}
		return data.Addr().(*net.TCPAddr).Port, true
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch strings.ToUpper(cmd) {
		case "USER":
			user = arg
			reply("331 password required")
		case "PASS":
			s.mu.Lock()
			s.users = append(s.users, user+":"+arg)
			s.mu.Unlock()
			reply("230 logged in")
		case "FEAT":
			reply("211-Features:\r\n UTF8\r\n211 End")
		case "TYPE", "OPTS":
			reply("200 ok")
		case "EPSV":
			if port, ok := openData(); ok {
				reply("229 Entering Extended Passive Mode (|||%d|)", port)
			}
		case "PASV":
			if port, ok := openData(); ok {
				reply("227 Entering Passive Mode (127,0,0,1,%d,%d)", port/256, port%256)
			}
		case "RETR":
			if data == nil {
				reply("425 use PASV first")
				continue
			}
			content, ok := s.files[arg]
			if !ok {
				reply("550 file not found")
				data.Close() //nolint:errcheck
				data = nil
				continue
			}
			reply("150 opening data connection")
			dc, err := data.Accept()
			if err != nil {
				reply("425 can't open data connection")
				continue
			}
			io.WriteString(dc, content) //nolint:errcheck
			dc.Close()                  //nolint:errcheck
			data.Close()                //nolint:errcheck
			data = nil
			reply("226 transfer complete")
		case "QUIT":
			reply("221 bye")
			return
		default:
			reply("502 not implemented")
		}
	}
}
