package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestJSONEncodeCarriesDiscriminator(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"player number", NewPlayerNumber(1), `{"Type":"PlayerNumberMessage","PlayerNumber":1}`},
		{"player position", NewPlayerPosition(120.9), `{"Type":"PlayerPositionMessage","YPos":120}`},
		{"ball position", NewBallPosition(200.7, 3.2), `{"Type":"BallPositionMessage","XPos":200,"YPos":3}`},
		{"score", NewScore([2]int{0, 1}), `{"Type":"ScoreMessage","Score":[0,1]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := JSONCodec{}.Encode(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestJSONDecodePosition(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr error
	}{
		{"bare position", `{"YPos":42}`, 42, nil},
		{"typed position", `{"Type":"PlayerPositionMessage","YPos":17}`, 17, nil},
		{"fractional position", `{"YPos":99.5}`, 99.5, nil},
		{"missing YPos", `{"Type":"PlayerPositionMessage"}`, 0, ErrMalformedMessage},
		{"wrong type", `{"Type":"ScoreMessage","YPos":1}`, 0, ErrUnexpectedMessage},
		{"not json", `hello`, 0, ErrMalformedMessage},
		{"wrong field type", `{"YPos":"up"}`, 0, ErrMalformedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSONCodec{}.DecodePosition([]byte(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMsgpackEncodeUsesFieldNames(t *testing.T) {
	data, err := MsgpackCodec{}.Encode(NewScore([2]int{3, 4}))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(data, &decoded))
	assert.Equal(t, "ScoreMessage", decoded["Type"])
	assert.Len(t, decoded["Score"], 2)
}

func TestMsgpackDecodePosition(t *testing.T) {
	data, err := msgpack.Marshal(map[string]interface{}{"YPos": 77})
	require.NoError(t, err)

	got, err := MsgpackCodec{}.DecodePosition(data)
	require.NoError(t, err)
	assert.Equal(t, 77.0, got)

	_, err = MsgpackCodec{}.DecodePosition([]byte{0xc1})
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestCodecFor(t *testing.T) {
	c, err := CodecFor("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())
	assert.False(t, c.Binary())

	c, err = CodecFor("MsgPack")
	require.NoError(t, err)
	assert.Equal(t, "msgpack", c.Name())
	assert.True(t, c.Binary())

	_, err = CodecFor("protobuf")
	assert.ErrorIs(t, err, ErrUnknownCodec)
}

func TestScoreMessageCopiesArray(t *testing.T) {
	score := [2]int{1, 2}
	msg := NewScore(score)
	score[0] = 9

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Type":"ScoreMessage","Score":[1,2]}`, string(data))
}

func TestDecodeServerMessages(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.Encode(NewBallPosition(33.5, 120))
			require.NoError(t, err)
			env, err := codec.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, KindBallPosition, env.Type)
			assert.Equal(t, 33, env.XPos)
			assert.Equal(t, 120, env.YPos)

			data, err = codec.Encode(NewScore([2]int{4, 2}))
			require.NoError(t, err)
			env, err = codec.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, [2]int{4, 2}, env.Score)
		})
	}
}

func TestDecodeRejectsUnknownType(t *testing.T) {
	_, err := JSONCodec{}.Decode([]byte(`{"Type":"ChatMessage"}`))
	assert.ErrorIs(t, err, ErrUnexpectedMessage)

	_, err = JSONCodec{}.Decode([]byte(`{"XPos":1}`))
	assert.ErrorIs(t, err, ErrMalformedMessage)

	_, err = JSONCodec{}.Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestPaddleUpdateRoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		data, err := codec.Encode(NewPaddleUpdate(87.25))
		require.NoError(t, err)
		y, err := codec.DecodePosition(data)
		require.NoError(t, err, codec.Name())
		assert.Equal(t, 87.25, y, codec.Name())
	}
}
