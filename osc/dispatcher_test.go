package osc

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_AddMethodFunc(t *testing.T) {
	type args struct {
		addr   string
		method MethodFunc
	}
	tests := []struct {
		name    string
		methods map[string]Method
		args    args
		wantErr bool
	}{
		{"valid", nil, args{"/address/test", func(_ *Message) {}}, false},
		{"invalid", nil, args{"/address*/test", func(_ *Message) {}}, true},
		{"no_slash", nil, args{"address/test", func(_ *Message) {}}, true},
		{"already_exists", map[string]Method{"/address/test": MethodFunc(func(_ *Message) {})}, args{"/address/test", func(_ *Message) {}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Dispatcher{
				methods: tt.methods,
			}
			if err := d.AddMethodFunc(tt.args.addr, tt.args.method); (err != nil) != tt.wantErr {
				t.Errorf("AddMethodFunc() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	d := NewDispatcher(zerolog.Nop())
	for addr, bit := range map[string]int{
		"/osc":     1,
		"/os":      2,
		"/osv":     4,
		"/osabc":   8,
		"/osc123":  16,
		"/osc1b3":  32,
		"/oscz":    64,
		"/osc/z":   128,
		"/osc/23f": 256,
	} {
		bit := bit
		require.NoError(t, d.AddMethodFunc(addr, func(msg *Message) {
			msg.Arguments[0] = msg.Arguments[0].(int) + bit
		}))
	}
	return d
}

func TestDispatcher_Dispatch(t *testing.T) {
	d := newTestDispatcher(t)

	type args struct {
		packet Packet
		a      net.Addr
	}
	tests := []struct {
		name   string
		args   args
		expect int
	}{
		{"single", args{NewMessage("/osc", 0), nil}, 1},
		{"c_or_not", args{NewMessage("/os{c,}", 0), nil}, 3},
		{"single_any", args{NewMessage("/os{?,}", 0), nil}, 7},
		{"single_must", args{NewMessage("/os{c,v}", 0), nil}, 5},
		{"match_in_part", args{NewMessage("/osc{?,}z", 0), nil}, 64},
		{"match_multiple_parts", args{NewMessage("/osc/?", 0), nil}, 128},
		{"star", args{NewMessage("/osc*", 0), nil}, 113},
		{"range", args{NewMessage("/osc1[0-9]3", 0), nil}, 16},
		{"negated_range", args{NewMessage("/osc1[!0-9]3", 0), nil}, 32},
		{"every_two_part", args{NewMessage("/*/*", 0), nil}, 384},
		{"no_match", args{NewMessage("/nothing", 0), nil}, 0},
		{"bad_pattern", args{NewMessage("/osc[", 0), nil}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d.Dispatch(tt.args.packet, tt.args.a)
			p := tt.args.packet.(*Message)
			if p.Arguments[0].(int) != tt.expect {
				t.Errorf("Dispatch() got = %v, expect %v", p.Arguments[0].(int), tt.expect)
			}
		})
	}
}

func TestDispatcher_DispatchBundle(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())
	got := make(chan string, 4)
	require.NoError(t, d.AddMethodFunc("/a", func(msg *Message) { got <- msg.Address }))
	require.NoError(t, d.AddMethodFunc("/b", func(msg *Message) { got <- msg.Address }))

	start := time.Now()
	d.Dispatch(NewBundle(NewTimetagFromTime(start.Add(50*time.Millisecond)),
		NewMessage("/a"),
		NewBundle(ImmediateTimetag, NewMessage("/b")),
	), nil)

	var seen []string
	for len(seen) < 2 {
		select {
		case addr := <-got:
			seen = append(seen, addr)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, seen %v", seen)
		}
	}

	assert.ElementsMatch(t, []string{"/a", "/b"}, seen)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

type logSink chan string

func (s logSink) Write(p []byte) (int, error) {
	s <- string(p)
	return len(p), nil
}

func TestDispatcher_DispatchBundleRecoversPanics(t *testing.T) {
	sink := make(logSink, 16)
	d := NewDispatcher(zerolog.New(sink).Level(zerolog.ErrorLevel))
	require.NoError(t, d.AddMethodFunc("/boom", func(_ *Message) { panic("handler blew up") }))

	got := make(chan string, 1)
	require.NoError(t, d.AddMethodFunc("/ok", func(msg *Message) { got <- msg.Address }))

	server := &Server{Handler: d, Logger: zerolog.Nop()}
	server.serve(NewBundle(ImmediateTimetag, NewMessage("/boom")), nil)

	select {
	case entry := <-sink:
		assert.Contains(t, entry, "panic handling packet")
		assert.Contains(t, entry, "handler blew up")
	case <-time.After(2 * time.Second):
		t.Fatal("panic in bundle element was not logged")
	}

	// The dispatcher keeps working afterwards.
	server.serve(NewBundle(ImmediateTimetag, NewMessage("/ok")), nil)
	select {
	case addr := <-got:
		assert.Equal(t, "/ok", addr)
	case <-time.After(2 * time.Second):
		t.Fatal("bundle after panic was not dispatched")
	}
}
