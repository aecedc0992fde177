package messaging

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/rai/order-events-go/internal/platform/kafka"
	"github.com/rai/order-events-go/modules/shared/events"
	"github.com/rai/order-events-go/modules/shared/events/contracts"
)

// NewCodec returns a codec with every order event registered.
func NewCodec() *kafka.Codec {
	c := kafka.NewCodec()
	RegisterCodecs(c)
	return c
}

// RegisterCodecs adds the order event payload codecs to c.
func RegisterCodecs(c *kafka.Codec) {
	c.Register(contracts.OrderCreatedEventName, encodeOrderCreated, decodeOrderCreated)
}

func encodeOrderCreated(e *jx.Encoder, event events.Event) error {
	var evt contracts.OrderCreatedEvent
	switch v := event.(type) {
	case contracts.OrderCreatedEvent:
		evt = v
	case *contracts.OrderCreatedEvent:
		evt = *v
	default:
		return errors.Wrapf(kafka.ErrUnsupportedEvent, "%T", event)
	}

	e.ObjStart()
	e.FieldStart("orderId")
	e.Str(evt.OrderID)
	e.FieldStart("customerId")
	e.Str(evt.CustomerID)
	e.FieldStart("totalAmount")
	evt.TotalAmount.Encode(e)
	e.FieldStart("items")
	e.ArrStart()
	for _, item := range evt.Items {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(item.ProductID)
		e.FieldStart("quantity")
		e.Int(item.Quantity)
		e.FieldStart("price")
		item.Price.Encode(e)
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()
	return nil
}

func decodeOrderCreated(meta events.BaseEvent, data jx.Raw) (events.Event, error) {
	evt := contracts.OrderCreatedEvent{BaseEvent: meta, Items: []contracts.OrderItem{}}
	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "orderId":
			evt.OrderID, err = d.Str()
		case "customerId":
			evt.CustomerID, err = d.Str()
		case "totalAmount":
			err = evt.TotalAmount.Decode(d)
		case "items":
			err = d.Arr(func(d *jx.Decoder) error {
				item, err := decodeItem(d)
				if err != nil {
					return err
				}
				evt.Items = append(evt.Items, item)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, string(key))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if evt.AggregateId == "" {
		evt.AggregateId = evt.OrderID
	}
	return evt, nil
}

func decodeItem(d *jx.Decoder) (contracts.OrderItem, error) {
	var item contracts.OrderItem
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "productId":
			item.ProductID, err = d.Str()
		case "quantity":
			item.Quantity, err = d.Int()
		case "price":
			err = item.Price.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, string(key))
		}
		return nil
	})
	return item, err
}
