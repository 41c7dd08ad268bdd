// Package protocol defines the messages exchanged with pong clients and the
// codecs that put them on the wire.
//
// Every message carries a "Type" discriminator naming its kind, so a client
// can dispatch on it without out-of-band schema knowledge:
//
//	{"Type":"PlayerNumberMessage","PlayerNumber":0}
//	{"Type":"PlayerPositionMessage","YPos":120}
//	{"Type":"BallPositionMessage","XPos":200,"YPos":150}
//	{"Type":"ScoreMessage","Score":[1,0]}
//
// Clients only ever send PlayerPositionMessage. The Type field is optional on
// inbound messages.
//
// Codecs:
//
// JSONCodec is the default text encoding. MsgpackCodec carries the same field
// names in MessagePack binary frames.
package protocol
