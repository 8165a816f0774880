package transport

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/dotstart/stockpile-go/internal/stockpile/domain"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/events"
	"github.com/dotstart/stockpile-go/internal/stockpile/gateways/wire"
)

var streamEventsDesc = &grpc.StreamDesc{StreamName: "StreamEvents", ServerStreams: true}

// InvalidEventError reports an envelope which arrived intact but failed
// decoding or validation. The stream remains usable. It matches
// domain.ErrInvalidEvent.
type InvalidEventError struct {
	Err error
}

func (e *InvalidEventError) Error() string        { return fmt.Sprintf("invalid event: %v", e.Err) }
func (e *InvalidEventError) Unwrap() error        { return e.Err }
func (e *InvalidEventError) Is(target error) bool { return target == domain.ErrInvalidEvent }

// EventOperations subscribes to the server's cache event stream.
type EventOperations struct {
	conn    grpc.ClientConnInterface
	decoder *events.Decoder
}

// Stream opens the event stream. It ends when ctx is cancelled or the server
// closes it.
func (o *EventOperations) Stream(ctx context.Context) (*EventStream, error) {
	cs, err := o.conn.NewStream(ctx, streamEventsDesc, methodStreamEvents, grpc.ForceCodec(codec{}))
	if err != nil {
		return nil, err
	}
	if err := cs.SendMsg(&wire.Empty{}); err != nil {
		return nil, err
	}
	if err := cs.CloseSend(); err != nil {
		return nil, err
	}
	return &EventStream{stream: cs, decoder: o.decoder}, nil
}

// EventStream yields decoded events.
type EventStream struct {
	stream  grpc.ClientStream
	decoder *events.Decoder
}

// Recv blocks for the next event. io.EOF marks the end of the stream; an
// *InvalidEventError leaves the stream usable, any other error ends it.
func (s *EventStream) Recv() (domain.Event, error) {
	var ev wire.Event
	if err := s.stream.RecvMsg(&ev); err != nil {
		return domain.Event{}, err
	}
	out, err := s.decoder.Decode(&ev)
	if err != nil {
		return domain.Event{}, &InvalidEventError{Err: err}
	}
	return out, nil
}
