package identity

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// wireMessage is implemented by the hand-encoded auth messages.
type wireMessage interface {
	marshal() []byte
	unmarshal([]byte) error
}

// wireCodec speaks protobuf wire format for the two auth messages of
// api/auth/v1/auth.proto without generated stubs. It registers under the
// standard "proto" name so peers see an ordinary application/grpc+proto call.
type wireCodec struct{}

func (wireCodec) Name() string { return "proto" }

func (wireCodec) Marshal(v any) ([]byte, error) {
	msg, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("identity codec: cannot marshal %T", v)
	}
	return msg.marshal(), nil
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	msg, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("identity codec: cannot unmarshal into %T", v)
	}
	return msg.unmarshal(data)
}

// tokenRequest is auth.TokenRequest { string token = 1; }.
type tokenRequest struct {
	Token string
}

func (m *tokenRequest) marshal() []byte {
	var b []byte
	if m.Token != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Token)
	}
	return b
}

func (m *tokenRequest) unmarshal(b []byte) error {
	*m = tokenRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num == 1 && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			m.Token = v
			return n, true
		}
		return 0, false
	})
}

// tokenResponse is auth.TokenResponse { bool is_valid = 1; int64 user_id = 2; }.
type tokenResponse struct {
	IsValid bool
	UserID  int64
}

func (m *tokenResponse) marshal() []byte {
	var b []byte
	if m.IsValid {
		b = protowire.AppendTag(b, 1, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	if m.UserID != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.UserID))
	}
	return b
}

func (m *tokenResponse) unmarshal(b []byte) error {
	*m = tokenResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.VarintType {
			return 0, false
		}
		switch num {
		case 1:
			v, n := protowire.ConsumeVarint(b)
			m.IsValid = protowire.DecodeBool(v)
			return n, true
		case 2:
			v, n := protowire.ConsumeVarint(b)
			m.UserID = int64(v)
			return n, true
		}
		return 0, false
	})
}

// consumeFields walks b calling field for each tag. field reports the bytes it
// consumed and false for fields it does not know, which are skipped.
func consumeFields(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, bool)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		n, known := field(num, typ, b)
		if !known {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}
