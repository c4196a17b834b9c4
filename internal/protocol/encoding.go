package protocol

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	ErrUnknownEvent     = errors.New("unknown event")
	ErrMalformedPayload = errors.New("malformed payload")
)

// Message is a decoded client frame: the event name, the client's ack id and
// a payload of the variant matching the event.
type Message struct {
	Event   string
	Ack     int64
	Payload interface{}
}

// Decode parses a raw client frame into its typed variant. Unknown events and
// payloads that fail to unmarshal are rejected; nothing is dispatched for them.
func Decode(raw []byte) (*Message, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Wrap(ErrMalformedPayload, err.Error())
	}

	payload, err := decodePayload(env.Event, env.Data)
	if err != nil {
		return nil, err
	}
	return &Message{Event: env.Event, Ack: env.Ack, Payload: payload}, nil
}

func decodePayload(event string, data json.RawMessage) (interface{}, error) {
	var payload interface{}
	switch event {
	case EventCreateRoom:
		payload = &CreateRoom{}
	case EventJoinRoom:
		payload = &JoinRoom{}
	case EventLeaveRoom:
		payload = &LeaveRoom{}
	case EventOffer:
		payload = &Offer{}
	case EventAnswer:
		payload = &Answer{}
	case EventIceCandidate:
		payload = &IceCandidate{}
	case EventSendMessage:
		payload = &RoomText{}
	case EventSendEmoji:
		payload = &Emoji{}
	case EventMuteStudent:
		payload = &MuteStudent{}
	case EventKickStudent:
		payload = &KickStudent{}
	case EventRaiseHand, EventLowerHand:
		payload = &Hand{}
	case EventSendTask:
		payload = &Task{}
	case EventSubmitTask:
		payload = &TaskSubmission{}
	case EventChatJoin, EventChatLeave:
		payload = &ChatRoomRef{}
	case EventChatMessage:
		payload = &ChatText{}
	default:
		return nil, errors.Wrap(ErrUnknownEvent, event)
	}

	if len(data) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, errors.Wrapf(ErrMalformedPayload, "%s: %v", event, err)
	}
	return payload, nil
}
