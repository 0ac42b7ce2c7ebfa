package osc

import (
	"context"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// MaxPacketSize is the largest UDP payload a server will read.
const MaxPacketSize = 65507

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, MaxPacketSize)
		return &b
	},
}

// Handler receives every packet decoded by a Server.
type Handler interface {
	Dispatch(p Packet, a net.Addr)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(p Packet, a net.Addr)

// Dispatch calls f.
func (f HandlerFunc) Dispatch(p Packet, a net.Addr) {
	f(p, a)
}

// Server reads OSC packets from a connection and hands them to Handler.
type Server struct {
	Handler       Handler
	ReadTimeout   time.Duration
	Logger        zerolog.Logger
	Metrics       *Metrics
	DecodeOptions []DecodeOption
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.ListenPacket("udp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", addr)
	}
	defer ln.Close()

	return s.Serve(ctx, ln)
}

// Serve retrieves incoming OSC packets from the given connection and
// dispatches them. Datagrams that fail to decode are logged and dropped.
// Serve returns when ctx is cancelled or the connection fails; it does not
// close c.
func (s *Server) Serve(ctx context.Context, c net.PacketConn) error {
	if s.Handler == nil {
		return errors.New("osc: server has no handler")
	}

	stop := context.AfterFunc(ctx, func() {
		// Unblock the pending read.
		_ = c.SetReadDeadline(time.Now())
	})
	defer stop()

	for {
		p, addr, err := s.readFromConnection(c)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) {
				if ne.Timeout() {
					continue
				}
				return err
			}
			s.Metrics.observeDecodeError(err)
			s.Logger.Warn().Err(err).Stringer("from", addr).Msg("dropping undecodable packet")
			continue
		}
		go s.serve(p, addr)
	}
}

func (s *Server) serve(p Packet, a net.Addr) {
	defer recoverer(s.Logger, a)
	s.Handler.Dispatch(p, a)
}

// recoverer logs a panic raised while handling a packet from a. It must be
// deferred directly.
func recoverer(log zerolog.Logger, a net.Addr) {
	if err := recover(); err != nil {
		buf := make([]byte, 64<<10)
		buf = buf[:runtime.Stack(buf, false)]
		log.Error().
			Interface("panic", err).
			Stringer("from", a).
			Bytes("stack", buf).
			Msg("panic handling packet")
	}
}

// ReceivePacket reads a single packet from c.
func (s *Server) ReceivePacket(c net.PacketConn) (Packet, net.Addr, error) {
	return s.readFromConnection(c)
}

// readFromConnection retrieves OSC packets.
func (s *Server) readFromConnection(c net.PacketConn) (Packet, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := bufPool.Get().(*[]byte)
	defer bufPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}

	// Decoded strings and blobs are copies, so the pooled buffer can be reused.
	p, err := ParsePacket((*b)[:n], s.DecodeOptions...)
	if err != nil {
		return nil, a, err
	}

	s.Metrics.observePacket(p, "in", n)
	return p, a, nil
}
