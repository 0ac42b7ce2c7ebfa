package osc

import (
	"net"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *Message)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *Message) {
	f(msg)
}

// Dispatcher routes received messages to the Methods whose address matches
// the message's address pattern. Bundles are held until their time tag.
type Dispatcher struct {
	mu      sync.RWMutex
	methods map[string]Method
	log     zerolog.Logger
}

// NewDispatcher returns an empty dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{methods: make(map[string]Method), log: log}
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	if !strings.HasPrefix(addr, "/") {
		return errors.Wrapf(ErrMalformedAddress, "AddMethod: %q", addr)
	}
	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return errors.Newf("AddMethod: OSC Method %q may not contain any characters in \"*?,[]{}# \"", addr)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.methods == nil {
		d.methods = make(map[string]Method)
	}
	if _, ok := d.methods[addr]; ok {
		return errors.Newf("AddMethod: OSC Method %q exists already", addr)
	}

	d.methods[addr] = method
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Dispatch dispatches OSC Packets. It implements Handler.
func (d *Dispatcher) Dispatch(packet Packet, a net.Addr) {
	switch p := packet.(type) {
	case *Message:
		d.dispatchMessage(p, a)
	case *Bundle:
		time.AfterFunc(p.Timetag.ExpiresIn(), func() {
			defer recoverer(d.log, a)
			for _, elem := range p.Elements {
				d.Dispatch(elem, a)
			}
		})
	default:
		d.log.Warn().Stringer("from", a).Msgf("dispatch: invalid packet %T", packet)
	}
}

func (d *Dispatcher) dispatchMessage(msg *Message, a net.Addr) {
	r, err := getRegEx(msg.Address)
	if err != nil {
		d.log.Warn().Err(err).Str("address", msg.Address).Stringer("from", a).Msg("dispatch: invalid address pattern")
		return
	}

	d.mu.RLock()
	var matched []Method
	for addr, method := range d.methods {
		if r.MatchString(addr) {
			matched = append(matched, method)
		}
	}
	d.mu.RUnlock()

	if len(matched) == 0 {
		d.log.Debug().Str("address", msg.Address).Stringer("from", a).Msg("dispatch: no method matched")
	}
	for _, method := range matched {
		method.HandleMessage(msg)
	}
}

// getRegEx returns a regexp.Regexp matching whole addresses for the given
// OSC address pattern.
func getRegEx(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteByte('^')

	inBracket, inBrace := false, false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case inBracket && c == ']':
			inBracket = false
			sb.WriteByte(']')
		case inBracket && c == '!' && pattern[i-1] == '[':
			sb.WriteByte('^')
		case inBracket:
			if c == '\\' || c == '^' {
				sb.WriteByte('\\')
			}
			sb.WriteByte(c)
		case c == '[':
			inBracket = true
			sb.WriteByte('[')
		case c == '*':
			sb.WriteString("[^/]*")
		case c == '?':
			sb.WriteString("[^/]")
		case c == '{':
			inBrace = true
			sb.WriteString("(?:")
		case c == '}' && inBrace:
			inBrace = false
			sb.WriteByte(')')
		case c == ',' && inBrace:
			sb.WriteByte('|')
		default:
			sb.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	sb.WriteByte('$')
	return regexp.Compile(sb.String())
}
