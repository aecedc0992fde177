package kafka

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/rai/order-events-go/modules/shared/events"
)

// TimeLayout is the occurredOn layout: UTC with millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrUnsupportedEvent is returned when a data encoder receives an event of
// a type it was not registered for.
var ErrUnsupportedEvent = errors.New("unsupported event type")

// DataEncoder writes the payload of one event variant.
type DataEncoder func(e *jx.Encoder, event events.Event) error

// DataDecoder rebuilds one event variant from envelope metadata and payload.
type DataDecoder func(meta events.BaseEvent, data jx.Raw) (events.Event, error)

// Envelope is the transport-neutral wire form of a domain event.
type Envelope struct {
	EventName    string
	EventVersion int
	OccurredOn   time.Time
	Data         jx.Raw
}

// Encode writes the envelope with a fixed field order.
func (env Envelope) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("eventName")
	e.Str(env.EventName)
	e.FieldStart("eventVersion")
	e.Int(env.EventVersion)
	e.FieldStart("occurredOn")
	e.Str(env.OccurredOn.UTC().Format(TimeLayout))
	e.FieldStart("data")
	if len(env.Data) == 0 {
		e.Null()
	} else {
		e.Raw(env.Data)
	}
	e.ObjEnd()
}

// Decode reads an envelope. Unknown fields are skipped.
func (env *Envelope) Decode(d *jx.Decoder) error {
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "eventName":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "eventName")
			}
			env.EventName = v
		case "eventVersion":
			v, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "eventVersion")
			}
			env.EventVersion = v
		case "occurredOn":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "occurredOn")
			}
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return errors.Wrap(err, "occurredOn")
			}
			env.OccurredOn = t.UTC()
		case "data":
			v, err := d.Raw()
			if err != nil {
				return errors.Wrap(err, "data")
			}
			env.Data = append(jx.Raw(nil), v...)
		default:
			return d.Skip()
		}
		return nil
	})
}

// InboundEvent is a consumed event whose name has no registered decoder.
type InboundEvent struct {
	events.BaseEvent
	Data jx.Raw
}

func inboundEvent(event events.Event) (InboundEvent, bool) {
	switch v := event.(type) {
	case InboundEvent:
		return v, true
	case *InboundEvent:
		if v != nil {
			return *v, true
		}
	}
	return InboundEvent{}, false
}

type codecEntry struct {
	encode DataEncoder
	decode DataDecoder
}

// Codec maps event names to payload encoders and decoders.
type Codec struct {
	mu      sync.RWMutex
	entries map[string]codecEntry
}

func NewCodec() *Codec {
	return &Codec{entries: make(map[string]codecEntry)}
}

// Register binds an event name to its payload codec. Either func may be nil.
func (c *Codec) Register(eventName string, encode DataEncoder, decode DataDecoder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[eventName] = codecEntry{encode: encode, decode: decode}
}

func (c *Codec) lookup(eventName string) codecEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[eventName]
}

// Marshal serializes event into its envelope. An InboundEvent is forwarded
// with its payload unchanged. Other events without a registered encoder are
// serialized with encoding/json.
func (c *Codec) Marshal(event events.Event) ([]byte, error) {
	var data jx.Raw
	if in, ok := inboundEvent(event); ok {
		data = in.Data
	} else if enc := c.lookup(event.EventName()).encode; enc != nil {
		var e jx.Encoder
		if err := enc(&e, event); err != nil {
			return nil, errors.Wrapf(err, "encode %s", event.EventName())
		}
		data = e.Bytes()
	} else {
		b, err := json.Marshal(event)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s", event.EventName())
		}
		data = b
	}

	env := Envelope{
		EventName:    event.EventName(),
		EventVersion: event.EventVersion(),
		OccurredOn:   event.OccurredOn(),
		Data:         data,
	}
	var e jx.Encoder
	env.Encode(&e)
	return e.Bytes(), nil
}

// Unmarshal decodes an envelope. The envelope carries no identity, so the
// event id and aggregate id come from the message headers and key.
func (c *Codec) Unmarshal(value []byte, eventID, aggregateID string) (events.Event, error) {
	var env Envelope
	if err := env.Decode(jx.DecodeBytes(value)); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	if env.EventName == "" {
		return nil, errors.New("decode envelope: missing eventName")
	}
	if env.EventVersion == 0 {
		env.EventVersion = events.DefaultVersion
	}

	meta := events.BaseEvent{
		ID:          eventID,
		Name:        env.EventName,
		Version:     env.EventVersion,
		Timestamp:   env.OccurredOn,
		AggregateId: aggregateID,
	}
	if dec := c.lookup(env.EventName).decode; dec != nil {
		event, err := dec(meta, env.Data)
		if err != nil {
			return nil, errors.Wrapf(err, "decode %s", env.EventName)
		}
		return event, nil
	}
	return InboundEvent{BaseEvent: meta, Data: env.Data}, nil
}
