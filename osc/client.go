package osc

import (
	"net"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Transport hands an encoded datagram to a destination. net.PacketConn
// satisfies it. Sends are fire and forget: no acknowledgment, retry or
// ordering is provided.
type Transport interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
}

// ResolveDestination resolves a host and port into a UDP destination.
func ResolveDestination(host string, port int) (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s:%d", host, port)
	}
	return addr, nil
}

// SendMessage encodes a message and writes it to dest.
func SendMessage(conn Transport, dest net.Addr, address string, args ...any) error {
	return send(conn, dest, NewMessage(address, args...))
}

// SendBundle encodes msgs as a bundle for tt and writes it to dest.
func SendBundle(conn Transport, dest net.Addr, tt Timetag, msgs ...*Message) error {
	b := NewBundle(tt)
	for _, m := range msgs {
		b.Elements = append(b.Elements, m)
	}
	return send(conn, dest, b)
}

func send(conn Transport, dest net.Addr, p Packet) error {
	_, err := writePacket(conn, dest, p)
	return err
}

func writePacket(conn Transport, dest net.Addr, p Packet) (int, error) {
	data, err := p.MarshalBinary()
	if err != nil {
		return 0, err
	}
	if _, err = conn.WriteTo(data, dest); err != nil {
		return 0, errors.Wrapf(err, "send to %s", dest)
	}
	return len(data), nil
}

// Client sends OSC packets to a fixed destination over a transport owned by
// the caller. Closing the transport is the caller's job.
type Client struct {
	conn    Transport
	dest    net.Addr
	log     zerolog.Logger
	metrics *Metrics
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the logger used to report sends.
func WithClientLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithClientMetrics records sent packets in m.
func WithClientMetrics(m *Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient returns a client writing to dest through conn.
func NewClient(conn Transport, dest net.Addr, opts ...ClientOption) *Client {
	c := &Client{conn: conn, dest: dest, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Destination returns the address packets are sent to.
func (c *Client) Destination() net.Addr {
	return c.dest
}

// Send sends an OSC Packet to the destination.
func (c *Client) Send(p Packet) error {
	n, err := writePacket(c.conn, c.dest, p)
	if err != nil {
		c.metrics.observeSendError()
		c.log.Debug().Err(err).Stringer("dest", c.dest).Msg("send failed")
		return err
	}

	c.metrics.observePacket(p, "out", n)
	c.log.Trace().Stringer("dest", c.dest).Str("kind", packetKind(p)).Int("bytes", n).Msg("packet sent")
	return nil
}

// SendMessage sends a single message.
func (c *Client) SendMessage(address string, args ...any) error {
	return c.Send(NewMessage(address, args...))
}

// SendBundle sends msgs as one bundle. Pass ImmediateTimetag when no
// execution time is wanted.
func (c *Client) SendBundle(tt Timetag, msgs ...*Message) error {
	b := NewBundle(tt)
	for _, m := range msgs {
		b.Elements = append(b.Elements, m)
	}
	return c.Send(b)
}
