package p2p

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/cjeanneret/PanTilt/internal/debug"
	"github.com/cjeanneret/PanTilt/internal/logic/control"
	"github.com/cjeanneret/PanTilt/internal/metrics"
)

// DefaultListenAddr is the UDP address the receiver binds to.
const DefaultListenAddr = ":4210"

// Receiver listens for peer frames while enabled.
type Receiver struct {
	addr    string
	submit  func(control.Command) bool
	metrics *metrics.Metrics

	mu   sync.Mutex
	conn net.PacketConn
	wg   sync.WaitGroup
}

// NewReceiver creates a disabled receiver. submit is called for every
// command decoded from a valid frame.
func NewReceiver(addr string, submit func(control.Command) bool, m *metrics.Metrics) *Receiver {
	if addr == "" {
		addr = DefaultListenAddr
	}
	return &Receiver{addr: addr, submit: submit, metrics: m}
}

// Enable starts listening. It is a no-op when already enabled.
func (r *Receiver) Enable() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		return nil
	}
	conn, err := net.ListenPacket("udp", r.addr)
	if err != nil {
		return fmt.Errorf("peer listen on %s: %w", r.addr, err)
	}
	r.conn = conn
	r.wg.Add(1)
	go r.loop(conn)
	debug.Info("Peer link enabled on %s", conn.LocalAddr())
	return nil
}

// Disable stops listening and waits for the read loop to exit. It is a
// no-op when already disabled.
func (r *Receiver) Disable() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.wg.Wait()
	r.conn = nil
	debug.Info("Peer link disabled")
	return err
}

// Close is an alias for Disable.
func (r *Receiver) Close() error {
	return r.Disable()
}

// Enabled reports whether the receiver is listening.
func (r *Receiver) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn != nil
}

// LocalAddr returns the bound address, or nil when disabled.
func (r *Receiver) LocalAddr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

func (r *Receiver) loop(conn net.PacketConn) {
	defer r.wg.Done()
	buf := make([]byte, 64)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			debug.Error(fmt.Errorf("peer read: %w", err))
			continue
		}
		r.handle(buf[:n], from)
	}
}

func (r *Receiver) handle(b []byte, from net.Addr) {
	f, err := ParseFrame(b)
	if err != nil {
		debug.Verbose("Peer %s: %v", from, err)
		r.metrics.PeerFrame("bad")
		return
	}
	debug.Verbose("Peer %s: kind=%d arg=%d", from, f.Kind, f.Arg)
	result := "ok"
	for _, cmd := range f.Commands() {
		if !r.submit(cmd) {
			result = "dropped"
		}
	}
	r.metrics.PeerFrame(result)
}

// Send transmits one frame to a receiver at addr.
func Send(addr string, f Frame) error {
	conn, err := net.DialTimeout("udp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("peer dial %s: %w", addr, err)
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(time.Second)); err != nil {
		return err
	}
	if _, err := conn.Write(f.Marshal()); err != nil {
		return fmt.Errorf("peer send to %s: %w", addr, err)
	}
	return nil
}
