package world

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"google.golang.org/protobuf/proto"

	worldv1 "github.com/Lydiiiiia27/ups-delivery-system/api/gen/go/world/v1"
)

// ConnectedResult is the literal handshake marker the World returns on success.
const ConnectedResult = "connected!"

// defaultWriteTimeout bounds a command write when no dial timeout is set.
const defaultWriteTimeout = 10 * time.Second

// ErrNotConnected is returned by commands issued without a live connection.
var ErrNotConnected = errors.New("world: not connected")

type LogFunc = func(format string, args ...any)

// ConnectError reports a failed handshake. Result holds the text echoed by
// the World, empty when the transport failed before a response arrived.
type ConnectError struct {
	Result string
	Err    error
}

func (e *ConnectError) Error() string {
	if e.Result != "" {
		return fmt.Sprintf("world connect rejected: %s", e.Result)
	}
	return fmt.Sprintf("world connect: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Rejected reports whether the World answered with an error text, as opposed
// to a transport failure. Callers retry a rejected join as create-new.
func (e *ConnectError) Rejected() bool { return e.Result != "" }

// SeqCounter issues sequence numbers starting at 1.
type SeqCounter struct {
	n atomic.Int64
}

func (s *SeqCounter) Next() int64 { return s.n.Add(1) }

// Connector owns the TCP stream to the World. Command writes are serialized
// and bounded by a write deadline; reads belong to a single Listener.
type Connector struct {
	dialTimeout time.Duration
	logFn       LogFunc

	writeMu sync.Mutex // serializes frames on the wire; never held with mu

	mu      sync.Mutex // guards the fields below
	conn    net.Conn
	reader  *bufio.Reader
	worldID int64
	seq     *SeqCounter
	broken  atomic.Bool

	pendingMu sync.Mutex
	pending   map[int64]string // command seq -> kind, until acked
}

func NewConnector(dialTimeout time.Duration, logFn LogFunc) *Connector {
	if logFn == nil {
		logFn = log.Printf
	}
	return &Connector{
		dialTimeout: dialTimeout,
		logFn:       logFn,
		seq:         &SeqCounter{},
		pending:     make(map[int64]string),
	}
}

// Connect dials addr and performs the handshake. When joinExisting is set the
// request names worldID; otherwise the World creates a new simulation.
func (c *Connector) Connect(ctx context.Context, addr string, trucks []InitTruck, joinExisting bool, worldID int64) (int64, error) {
	dialer := net.Dialer{Timeout: c.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return 0, &ConnectError{Err: err}
	}
	id, err := c.ConnectConn(ctx, conn, trucks, joinExisting, worldID)
	if err != nil {
		return 0, err
	}
	c.logFn("world: connected to %s, world id %d", addr, id)
	return id, nil
}

// ConnectConn performs the handshake over an already open stream. On failure
// conn is closed.
func (c *Connector) ConnectConn(ctx context.Context, conn net.Conn, trucks []InitTruck, joinExisting bool, worldID int64) (int64, error) {
	req := &Connect{Trucks: trucks, IsAmazon: false}
	if joinExisting {
		req.WorldID = &worldID
	}

	var deadline time.Time
	if c.dialTimeout > 0 {
		deadline = time.Now().Add(c.dialTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if !deadline.IsZero() {
		conn.SetDeadline(deadline)
	}

	reader := bufio.NewReader(conn)
	if err := WriteMessage(conn, req.toProto()); err != nil {
		conn.Close()
		return 0, &ConnectError{Err: fmt.Errorf("send UConnect: %w", err)}
	}
	var msg worldv1.UConnected
	if err := ReadMessage(reader, &msg); err != nil {
		conn.Close()
		if errors.Is(err, proto.Error) {
			return 0, &ConnectError{Err: fmt.Errorf("decode UConnected: %w", err)}
		}
		return 0, &ConnectError{Err: fmt.Errorf("read UConnected: %w", err)}
	}
	resp := connectedFromProto(&msg)
	if resp.Result != ConnectedResult {
		conn.Close()
		if resp.Result == "" {
			return 0, &ConnectError{Err: errors.New("empty handshake result")}
		}
		return 0, &ConnectError{Result: resp.Result}
	}
	conn.SetDeadline(time.Time{})

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.conn = conn
	c.reader = reader
	c.worldID = resp.WorldID
	c.seq = &SeqCounter{}
	c.broken.Store(false)
	c.mu.Unlock()

	c.pendingMu.Lock()
	c.pending = make(map[int64]string)
	c.pendingMu.Unlock()
	return resp.WorldID, nil
}

// GetNextSeqNum allocates the next command sequence number for this connection.
func (c *Connector) GetNextSeqNum() int64 {
	c.mu.Lock()
	seq := c.seq
	c.mu.Unlock()
	return seq.Next()
}

func (c *Connector) WorldID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worldID
}

// IsConnected reports whether the stream is open and has not failed.
func (c *Connector) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil && !c.broken.Load()
}

func (c *Connector) writeTimeout() time.Duration {
	if c.dialTimeout > 0 {
		return c.dialTimeout
	}
	return defaultWriteTimeout
}

// write sends one frame on conn under the write deadline.
func (c *Connector) write(conn net.Conn, m proto.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout()))
	err := WriteMessage(conn, m)
	conn.SetWriteDeadline(time.Time{})
	return err
}

// markBroken flags the stream as failed if conn is still the live one.
func (c *Connector) markBroken(conn net.Conn) {
	c.mu.Lock()
	if c.conn == conn {
		c.broken.Store(true)
	}
	c.mu.Unlock()
}

func (c *Connector) send(cmds *Commands) error {
	c.mu.Lock()
	conn := c.conn
	broken := c.broken.Load()
	c.mu.Unlock()
	if conn == nil || broken {
		return ErrNotConnected
	}
	if err := c.write(conn, cmds.toProto()); err != nil {
		c.markBroken(conn)
		return fmt.Errorf("world: write commands: %w", err)
	}
	return nil
}

func (c *Connector) track(seq int64, kind string) {
	c.pendingMu.Lock()
	c.pending[seq] = kind
	c.pendingMu.Unlock()
}

// Pickup sends truckID to warehouseID and returns the command's sequence number.
func (c *Connector) Pickup(truckID, warehouseID int32) (int64, error) {
	seq := c.GetNextSeqNum()
	err := c.send(&Commands{Pickups: []GoPickup{{TruckID: truckID, WarehouseID: warehouseID, SeqNum: seq}}})
	if err != nil {
		return seq, err
	}
	c.track(seq, "pickup")
	c.logFn("world: pickup truck %d -> warehouse %d (seq %d)", truckID, warehouseID, seq)
	return seq, nil
}

// Deliver sends truckID to drop packageID at (x, y).
func (c *Connector) Deliver(truckID int32, packageID int64, x, y int32) (int64, error) {
	seq := c.GetNextSeqNum()
	err := c.send(&Commands{Deliveries: []GoDeliver{{
		TruckID:  truckID,
		Packages: []DeliveryLocation{{PackageID: packageID, X: x, Y: y}},
		SeqNum:   seq,
	}}})
	if err != nil {
		return seq, err
	}
	c.track(seq, "deliver")
	c.logFn("world: deliver package %d by truck %d to (%d,%d) (seq %d)", packageID, truckID, x, y, seq)
	return seq, nil
}

// Query asks the World for truckID's status.
func (c *Connector) Query(truckID int32) (int64, error) {
	seq := c.GetNextSeqNum()
	if err := c.send(&Commands{Queries: []Query{{TruckID: truckID, SeqNum: seq}}}); err != nil {
		return seq, err
	}
	c.track(seq, "query")
	return seq, nil
}

// SetSpeed changes the simulation speed.
func (c *Connector) SetSpeed(speed uint32) error {
	if err := c.send(&Commands{SimSpeed: &speed}); err != nil {
		return err
	}
	c.logFn("world: simulation speed set to %d", speed)
	return nil
}

// SendAcks acknowledges response sequence numbers received from the World.
func (c *Connector) SendAcks(acks []int64) error {
	if len(acks) == 0 {
		return nil
	}
	return c.send(&Commands{Acks: acks})
}

// Acked records the World's acknowledgment of one of our commands.
func (c *Connector) Acked(seq int64) {
	c.pendingMu.Lock()
	delete(c.pending, seq)
	c.pendingMu.Unlock()
}

// PendingCommand returns the kind of an unacknowledged command.
func (c *Connector) PendingCommand(seq int64) (string, bool) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	kind, ok := c.pending[seq]
	return kind, ok
}

// PendingCount returns the number of commands the World has not acknowledged.
func (c *Connector) PendingCount() int {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	return len(c.pending)
}

// ReadResponses blocks for the next response envelope. Decode failures,
// including missing required fields, return a *ProtocolError after the frame
// has been consumed, so the stream stays aligned. An oversized frame cannot
// be skipped safely: the stream is closed and ErrStreamDesync returned.
func (c *Connector) ReadResponses() (*Responses, error) {
	c.mu.Lock()
	conn, reader := c.conn, c.reader
	c.mu.Unlock()
	if reader == nil {
		return nil, ErrNotConnected
	}
	var msg worldv1.UResponses
	err := ReadMessage(reader, &msg)
	switch {
	case err == nil:
		return responsesFromProto(&msg), nil
	case errors.Is(err, ErrStreamDesync):
		c.markBroken(conn)
		conn.Close()
		c.logFn("world: %v", err)
		return nil, err
	case isStreamClosed(err):
		c.markBroken(conn)
		return nil, err
	case errors.Is(err, proto.Error):
		return nil, &ProtocolError{Err: err}
	default:
		return nil, err
	}
}

// Interrupt unblocks a pending ReadResponses.
func (c *Connector) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.SetReadDeadline(time.Now())
	}
}

// Resume clears a read deadline set by Interrupt.
func (c *Connector) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.SetReadDeadline(time.Time{})
	}
}

// Disconnect sends the disconnect flag and closes the stream regardless of
// whether the World answers. Teardown errors are logged, never returned.
func (c *Connector) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	broken := c.broken.Load()
	if conn == nil {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.reader = nil
	c.worldID = 0
	c.seq = &SeqCounter{}
	c.broken.Store(false)
	c.mu.Unlock()

	if !broken {
		if err := c.write(conn, (&Commands{Disconnect: true}).toProto()); err != nil {
			c.logFn("world: send disconnect: %v", err)
		}
	}
	if err := conn.Close(); err != nil {
		c.logFn("world: close: %v", err)
	}
	c.logFn("world: disconnected")
}

// ProtocolError wraps an undecodable frame.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("world: malformed response: %v", e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// isStreamClosed reports errors after which the stream cannot yield more frames.
func isStreamClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) || errors.Is(err, ErrStreamDesync)
}
