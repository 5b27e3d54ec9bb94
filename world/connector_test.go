package world

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"sync"
	"testing"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"

	worldv1 "github.com/Lydiiiiia27/ups-delivery-system/api/gen/go/world/v1"
)

func quietLog(string, ...any) {}

// fakeWorld is the simulator side of a net.Pipe.
type fakeWorld struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func newFakeWorld(t *testing.T, conn net.Conn) *fakeWorld {
	return &fakeWorld{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (w *fakeWorld) readConnect() *Connect {
	w.t.Helper()
	var req worldv1.UConnect
	if err := ReadMessage(w.reader, &req); err != nil {
		w.t.Errorf("fake world read UConnect: %v", err)
		return nil
	}
	return connectFromProto(&req)
}

func (w *fakeWorld) reply(worldID int64, result string) {
	msg := &worldv1.UConnected{Worldid: proto.Int64(worldID), Result: proto.String(result)}
	if err := WriteMessage(w.conn, msg); err != nil {
		w.t.Errorf("fake world reply: %v", err)
	}
}

func (w *fakeWorld) send(r *Responses) {
	if err := WriteMessage(w.conn, responsesToProto(r)); err != nil {
		w.t.Errorf("fake world send: %v", err)
	}
}

// sendRaw frames payload without validating it as a message.
func (w *fakeWorld) sendRaw(payload []byte) {
	b := protowire.AppendVarint(nil, uint64(len(payload)))
	w.conn.Write(append(b, payload...))
}

func (w *fakeWorld) readCommands() *Commands {
	w.t.Helper()
	var cmds worldv1.UCommands
	if err := ReadMessage(w.reader, &cmds); err != nil {
		w.t.Fatalf("fake world read UCommands: %v", err)
	}
	return commandsFromProto(&cmds)
}

// connected returns a Connector that completed the handshake over a pipe.
func connected(t *testing.T) (*Connector, *fakeWorld) {
	t.Helper()
	return connectedWithTimeout(t, 2*time.Second)
}

func connectedWithTimeout(t *testing.T, timeout time.Duration) (*Connector, *fakeWorld) {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })
	world := newFakeWorld(t, server)

	go func() {
		if world.readConnect() != nil {
			world.reply(7, ConnectedResult)
		}
	}()

	c := NewConnector(timeout, quietLog)
	id, err := c.ConnectConn(context.Background(), client, []InitTruck{{ID: 1}}, false, 0)
	if err != nil {
		t.Fatalf("handshake: %v", err)
	}
	if id != 7 {
		t.Fatalf("world id = %d, want 7", id)
	}
	return c, world
}

func TestHandshakeCreateNew(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	world := newFakeWorld(t, server)

	got := make(chan *Connect, 1)
	go func() {
		req := world.readConnect()
		got <- req
		world.reply(42, ConnectedResult)
	}()

	c := NewConnector(2*time.Second, quietLog)
	trucks := []InitTruck{{ID: 1, X: 0, Y: 0}, {ID: 2, X: -5, Y: 9}}
	id, err := c.ConnectConn(context.Background(), client, trucks, false, 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if id != 42 || c.WorldID() != 42 {
		t.Errorf("world id = %d, want 42", id)
	}
	if !c.IsConnected() {
		t.Error("IsConnected should be true after handshake")
	}

	req := <-got
	if req.WorldID != nil {
		t.Errorf("create-new request should not carry a world id, got %d", *req.WorldID)
	}
	if req.IsAmazon {
		t.Error("isAmazon should be false")
	}
	if len(req.Trucks) != 2 || req.Trucks[1].X != -5 || req.Trucks[1].Y != 9 {
		t.Errorf("trucks = %+v", req.Trucks)
	}
}

func TestHandshakeJoinRejected(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	world := newFakeWorld(t, server)

	go func() {
		req := world.readConnect()
		if req != nil && (req.WorldID == nil || *req.WorldID != 99) {
			t.Errorf("join request should name world 99")
		}
		world.reply(0, "error: world id 99 does not exist")
	}()

	c := NewConnector(2*time.Second, quietLog)
	_, err := c.ConnectConn(context.Background(), client, nil, true, 99)
	var ce *ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConnectError", err)
	}
	if !ce.Rejected() {
		t.Error("a World error text should be reported as rejected")
	}
	if c.IsConnected() {
		t.Error("IsConnected should be false after a rejected handshake")
	}
}

func TestHandshakeTransportReset(t *testing.T) {
	client, server := net.Pipe()
	world := newFakeWorld(t, server)

	go func() {
		world.readConnect()
		server.Close()
	}()

	c := NewConnector(2*time.Second, quietLog)
	_, err := c.ConnectConn(context.Background(), client, nil, false, 0)
	var ce *ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConnectError", err)
	}
	if ce.Rejected() {
		t.Error("a transport reset is not a rejection")
	}
}

func TestConnectOverTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		world := newFakeWorld(t, conn)
		if world.readConnect() != nil {
			world.reply(5, ConnectedResult)
		}
		// hold the stream open until the client disconnects
		io.Copy(io.Discard, conn)
		conn.Close()
	}()

	c := NewConnector(2*time.Second, quietLog)
	id, err := c.Connect(context.Background(), ln.Addr().String(), nil, false, 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if id != 5 {
		t.Errorf("world id = %d, want 5", id)
	}
	c.Disconnect()
	if c.IsConnected() {
		t.Error("IsConnected should be false after Disconnect")
	}
	if c.WorldID() != 0 {
		t.Error("world id should be cleared on disconnect")
	}
}

func TestConnectDialFailure(t *testing.T) {
	ln, _ := net.Listen("tcp", "127.0.0.1:0")
	addr := ln.Addr().String()
	ln.Close()

	c := NewConnector(time.Second, quietLog)
	_, err := c.Connect(context.Background(), addr, nil, false, 0)
	var ce *ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConnectError", err)
	}
}

func TestCommandsAreWrappedAndSequenced(t *testing.T) {
	c, world := connected(t)

	go func() {
		c.Pickup(1, 3)
		c.Deliver(1, 900, 4, -2)
		c.Query(1)
		c.SetSpeed(250)
		c.SendAcks([]int64{11, 12})
	}()

	pickup := world.readCommands()
	if len(pickup.Pickups) != 1 || pickup.Pickups[0].WarehouseID != 3 || pickup.Pickups[0].SeqNum != 1 {
		t.Errorf("pickup = %+v", pickup.Pickups)
	}
	deliver := world.readCommands()
	if len(deliver.Deliveries) != 1 {
		t.Fatalf("deliveries = %+v", deliver.Deliveries)
	}
	d := deliver.Deliveries[0]
	if d.SeqNum != 2 || d.Packages[0].PackageID != 900 || d.Packages[0].Y != -2 {
		t.Errorf("deliver = %+v", d)
	}
	query := world.readCommands()
	if len(query.Queries) != 1 || query.Queries[0].SeqNum != 3 {
		t.Errorf("query = %+v", query.Queries)
	}
	speed := world.readCommands()
	if speed.SimSpeed == nil || *speed.SimSpeed != 250 {
		t.Errorf("simspeed = %v", speed.SimSpeed)
	}
	acks := world.readCommands()
	if len(acks.Acks) != 2 || acks.Acks[0] != 11 || acks.Acks[1] != 12 {
		t.Errorf("acks = %v", acks.Acks)
	}

	if c.PendingCount() != 3 {
		t.Errorf("pending = %d, want 3", c.PendingCount())
	}
	c.Acked(1)
	if _, ok := c.PendingCommand(1); ok {
		t.Error("seq 1 should no longer be pending")
	}
	if kind, _ := c.PendingCommand(2); kind != "deliver" {
		t.Errorf("seq 2 kind = %q, want deliver", kind)
	}
}

func TestSeqNumsStrictlyIncreasingUnderConcurrency(t *testing.T) {
	c := NewConnector(time.Second, quietLog)

	const workers, per = 8, 200
	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var last int64
			for j := 0; j < per; j++ {
				s := c.GetNextSeqNum()
				if s <= last {
					t.Errorf("seq %d not greater than %d", s, last)
				}
				last = s
				mu.Lock()
				if seen[s] {
					t.Errorf("seq %d issued twice", s)
				}
				seen[s] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if len(seen) != workers*per {
		t.Errorf("issued %d distinct seqs, want %d", len(seen), workers*per)
	}
	if !seen[1] {
		t.Error("counter should start at 1")
	}
}

func TestCommandWithoutConnection(t *testing.T) {
	c := NewConnector(time.Second, quietLog)
	if _, err := c.Pickup(1, 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
	// disconnect without a connection is harmless
	c.Disconnect()
}

func TestDisconnectSendsFlagAndResetsCounter(t *testing.T) {
	c, world := connected(t)
	c.GetNextSeqNum()
	c.GetNextSeqNum()

	got := make(chan *Commands, 1)
	go func() { got <- world.readCommands() }()
	c.Disconnect()

	select {
	case cmds := <-got:
		if !cmds.Disconnect {
			t.Error("disconnect flag not set")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no disconnect frame")
	}
	if c.GetNextSeqNum() != 1 {
		t.Error("sequence counter should reset after disconnect")
	}
}

func TestIsConnectedFalseAfterPeerCloses(t *testing.T) {
	c, world := connected(t)
	world.conn.Close()

	if _, err := c.ReadResponses(); err == nil {
		t.Fatal("expected read error after peer close")
	}
	if c.IsConnected() {
		t.Error("IsConnected should report false once the stream ended")
	}
}

func TestReadResponsesMalformedFrame(t *testing.T) {
	c, world := connected(t)
	go func() {
		// field 1 declared as length-delimited but truncated
		world.sendRaw([]byte{0x0a, 0x05, 0x08})
		world.send(&Responses{Finished: true})
	}()

	_, err := c.ReadResponses()
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProtocolError", err)
	}
	resp, err := c.ReadResponses()
	if err != nil {
		t.Fatalf("next frame: %v", err)
	}
	if !resp.Finished {
		t.Error("stream should stay aligned after a malformed frame")
	}
}

func TestHandshakeMissingResult(t *testing.T) {
	client, server := net.Pipe()
	defer server.Close()
	world := newFakeWorld(t, server)

	go func() {
		world.readConnect()
		// UConnected carrying only worldid
		b := protowire.AppendTag(nil, 1, protowire.VarintType)
		world.sendRaw(protowire.AppendVarint(b, 3))
	}()

	c := NewConnector(2*time.Second, quietLog)
	_, err := c.ConnectConn(context.Background(), client, nil, false, 0)
	var ce *ConnectError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ConnectError", err)
	}
	if ce.Rejected() || !errors.Is(err, proto.Error) {
		t.Errorf("err = %v, want a decode failure", err)
	}
	if c.IsConnected() {
		t.Error("IsConnected should be false after a failed handshake")
	}
}

func TestReadResponsesMissingRequiredField(t *testing.T) {
	c, world := connected(t)
	go func() {
		// completion without a truck id
		var fin []byte
		for field, v := range map[protowire.Number]uint64{2: 1, 3: 1, 5: 9} {
			fin = protowire.AppendTag(fin, field, protowire.VarintType)
			fin = protowire.AppendVarint(fin, v)
		}
		fin = protowire.AppendTag(fin, 4, protowire.BytesType)
		fin = protowire.AppendString(fin, "idle")
		b := protowire.AppendTag(nil, 1, protowire.BytesType)
		world.sendRaw(protowire.AppendBytes(b, fin))
		world.send(&Responses{Acks: []int64{1}})
	}()

	_, err := c.ReadResponses()
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ProtocolError", err)
	}
	resp, err := c.ReadResponses()
	if err != nil {
		t.Fatalf("next frame: %v", err)
	}
	if len(resp.Acks) != 1 {
		t.Errorf("acks = %v", resp.Acks)
	}
	if !c.IsConnected() {
		t.Error("a decode failure should not drop the stream")
	}
}

func TestOversizedFrameEndsStream(t *testing.T) {
	c, world := connected(t)
	go func() {
		b := protowire.AppendVarint(nil, maxFrameSize+1)
		world.conn.Write(append(b, 0x08, 0x01))
	}()

	_, err := c.ReadResponses()
	if !errors.Is(err, ErrStreamDesync) {
		t.Fatalf("err = %v, want ErrStreamDesync", err)
	}
	if !isStreamClosed(err) {
		t.Error("listener should treat the desync as a closed stream")
	}
	if c.IsConnected() {
		t.Error("IsConnected should be false after a desync")
	}
	if _, err := c.Pickup(1, 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("pickup err = %v, want ErrNotConnected", err)
	}
}

func TestCommandWriteTimesOutWhenWorldStopsReading(t *testing.T) {
	c, _ := connectedWithTimeout(t, 200*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := c.Pickup(1, 2)
		done <- err
	}()

	// state accessors stay responsive while the write is stalled
	polled := make(chan struct{})
	go func() {
		c.WorldID()
		c.IsConnected()
		close(polled)
	}()
	select {
	case <-polled:
	case <-time.After(100 * time.Millisecond):
		t.Error("WorldID blocked behind a stalled write")
	}

	select {
	case err := <-done:
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			t.Errorf("err = %v, want a write deadline error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("write never timed out")
	}
	if c.IsConnected() {
		t.Error("a failed write should mark the stream broken")
	}
}

func TestDisconnectClosesWhenWriteFails(t *testing.T) {
	c, world := connectedWithTimeout(t, 100*time.Millisecond)

	done := make(chan struct{})
	go func() {
		c.Disconnect()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Disconnect blocked on an unread stream")
	}
	if c.IsConnected() {
		t.Error("IsConnected should be false after Disconnect")
	}
	world.conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := world.reader.ReadByte(); !errors.Is(err, io.EOF) {
		t.Errorf("peer read err = %v, want EOF after close", err)
	}
}
