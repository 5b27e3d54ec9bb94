package world

import (
	"google.golang.org/protobuf/proto"

	worldv1 "github.com/Lydiiiiia27/ups-delivery-system/api/gen/go/world/v1"
)

// Value types for the World's messages. They are converted to and from the
// generated worldv1 messages (api/proto/world/v1/world_ups.proto) at the
// stream boundary so the rest of the bridge never handles proto pointers.

type InitTruck struct {
	ID int32
	X  int32
	Y  int32
}

type Connect struct {
	WorldID  *int64
	Trucks   []InitTruck
	IsAmazon bool
}

type Connected struct {
	WorldID int64
	Result  string
}

type GoPickup struct {
	TruckID     int32
	WarehouseID int32
	SeqNum      int64
}

type Finished struct {
	TruckID int32
	X       int32
	Y       int32
	Status  string
	SeqNum  int64
}

type DeliveryMade struct {
	TruckID   int32
	PackageID int64
	SeqNum    int64
}

type DeliveryLocation struct {
	PackageID int64
	X         int32
	Y         int32
}

type GoDeliver struct {
	TruckID  int32
	Packages []DeliveryLocation
	SeqNum   int64
}

type Err struct {
	Err          string
	OriginSeqNum int64
	SeqNum       int64
}

type Query struct {
	TruckID int32
	SeqNum  int64
}

type TruckStatus struct {
	TruckID int32
	Status  string
	X       int32
	Y       int32
	SeqNum  int64
}

// Commands is the outbound batch envelope (UCommands).
type Commands struct {
	Pickups    []GoPickup
	Deliveries []GoDeliver
	SimSpeed   *uint32
	Disconnect bool
	Queries    []Query
	Acks       []int64
}

// Responses is one decoded inbound envelope (UResponses).
type Responses struct {
	Completions []Finished
	Delivered   []DeliveryMade
	Finished    bool
	Acks        []int64
	TruckStatus []TruckStatus
	Errors      []Err
}

// SeqNums returns every sequence number carried by r that must be
// acknowledged back to the World.
func (r *Responses) SeqNums() []int64 {
	var seqs []int64
	for _, c := range r.Completions {
		seqs = append(seqs, c.SeqNum)
	}
	for _, d := range r.Delivered {
		seqs = append(seqs, d.SeqNum)
	}
	for _, t := range r.TruckStatus {
		seqs = append(seqs, t.SeqNum)
	}
	for _, e := range r.Errors {
		seqs = append(seqs, e.SeqNum)
	}
	return seqs
}

// IsEmpty reports whether the command batch carries nothing.
func (c *Commands) IsEmpty() bool {
	return len(c.Pickups) == 0 && len(c.Deliveries) == 0 && c.SimSpeed == nil &&
		!c.Disconnect && len(c.Queries) == 0 && len(c.Acks) == 0
}

// toProto builds the UConnect handshake request.
func (c *Connect) toProto() *worldv1.UConnect {
	m := &worldv1.UConnect{
		Worldid:  c.WorldID,
		IsAmazon: proto.Bool(c.IsAmazon),
	}
	for _, t := range c.Trucks {
		m.Trucks = append(m.Trucks, &worldv1.UInitTruck{
			Id: proto.Int32(t.ID),
			X:  proto.Int32(t.X),
			Y:  proto.Int32(t.Y),
		})
	}
	return m
}

func connectedFromProto(m *worldv1.UConnected) Connected {
	return Connected{WorldID: m.GetWorldid(), Result: m.GetResult()}
}

// toProto builds the UCommands batch. Optional fields stay unset when zero so
// an empty batch encodes to nothing.
func (c *Commands) toProto() *worldv1.UCommands {
	m := &worldv1.UCommands{}
	for _, p := range c.Pickups {
		m.Pickups = append(m.Pickups, &worldv1.UGoPickup{
			Truckid: proto.Int32(p.TruckID),
			Whid:    proto.Int32(p.WarehouseID),
			Seqnum:  proto.Int64(p.SeqNum),
		})
	}
	for _, d := range c.Deliveries {
		gd := &worldv1.UGoDeliver{
			Truckid: proto.Int32(d.TruckID),
			Seqnum:  proto.Int64(d.SeqNum),
		}
		for _, l := range d.Packages {
			gd.Packages = append(gd.Packages, &worldv1.UDeliveryLocation{
				Packageid: proto.Int64(l.PackageID),
				X:         proto.Int32(l.X),
				Y:         proto.Int32(l.Y),
			})
		}
		m.Deliveries = append(m.Deliveries, gd)
	}
	m.Simspeed = c.SimSpeed
	if c.Disconnect {
		m.Disconnect = proto.Bool(true)
	}
	for _, q := range c.Queries {
		m.Queries = append(m.Queries, &worldv1.UQuery{
			Truckid: proto.Int32(q.TruckID),
			Seqnum:  proto.Int64(q.SeqNum),
		})
	}
	m.Acks = append(m.Acks, c.Acks...)
	return m
}

func responsesFromProto(m *worldv1.UResponses) *Responses {
	r := &Responses{
		Finished: m.GetFinished(),
		Acks:     m.GetAcks(),
	}
	for _, c := range m.GetCompletions() {
		r.Completions = append(r.Completions, Finished{
			TruckID: c.GetTruckid(),
			X:       c.GetX(),
			Y:       c.GetY(),
			Status:  c.GetStatus(),
			SeqNum:  c.GetSeqnum(),
		})
	}
	for _, d := range m.GetDelivered() {
		r.Delivered = append(r.Delivered, DeliveryMade{
			TruckID:   d.GetTruckid(),
			PackageID: d.GetPackageid(),
			SeqNum:    d.GetSeqnum(),
		})
	}
	for _, t := range m.GetTruckstatus() {
		r.TruckStatus = append(r.TruckStatus, TruckStatus{
			TruckID: t.GetTruckid(),
			Status:  t.GetStatus(),
			X:       t.GetX(),
			Y:       t.GetY(),
			SeqNum:  t.GetSeqnum(),
		})
	}
	for _, e := range m.GetError() {
		r.Errors = append(r.Errors, Err{
			Err:          e.GetErr(),
			OriginSeqNum: e.GetOriginseqnum(),
			SeqNum:       e.GetSeqnum(),
		})
	}
	return r
}
