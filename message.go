package getwvkeys

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// MessageType mirrors SignedMessage.MessageType of the Widevine license protocol.
type MessageType int32

const (
	MessageLicenseRequest            MessageType = 1
	MessageLicense                   MessageType = 2
	MessageErrorResponse             MessageType = 3
	MessageServiceCertificateRequest MessageType = 4
	MessageServiceCertificate        MessageType = 5
	MessageSubLicense                MessageType = 6
	MessageCASLicenseRequest         MessageType = 7
	MessageCASLicense                MessageType = 8
	MessageExternalLicenseRequest    MessageType = 9
	MessageExternalLicense           MessageType = 10
)

var messageTypeNames = map[MessageType]string{
	MessageLicenseRequest:            "LICENSE_REQUEST",
	MessageLicense:                   "LICENSE",
	MessageErrorResponse:             "ERROR_RESPONSE",
	MessageServiceCertificateRequest: "SERVICE_CERTIFICATE_REQUEST",
	MessageServiceCertificate:        "SERVICE_CERTIFICATE",
	MessageSubLicense:                "SUB_LICENSE",
	MessageCASLicenseRequest:         "CAS_LICENSE_REQUEST",
	MessageCASLicense:                "CAS_LICENSE",
	MessageExternalLicenseRequest:    "EXTERNAL_LICENSE_REQUEST",
	MessageExternalLicense:           "EXTERNAL_LICENSE",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("MessageType(%d)", int32(t))
}

// ServiceCertificateRequest is the constant request for getting the service certificate from the Widevine license server.
var ServiceCertificateRequest = []byte{0x08, 0x04}

// SignedMessage is the envelope around challenges and licenses. The client
// never decrypts anything; it only reads the envelope for diagnostics.
type SignedMessage struct {
	Type       MessageType
	Msg        []byte
	Signature  []byte
	SessionKey []byte
}

func ParseSignedMessage(b []byte) (*SignedMessage, error) {
	if len(b) == 0 {
		return nil, errors.New("empty message")
	}

	msg := &SignedMessage{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("consume tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		var dst *[]byte
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("consume type: %w", protowire.ParseError(n))
			}
			msg.Type = MessageType(int32(v))
			b = b[n:]
			continue
		case num == 2 && typ == protowire.BytesType:
			dst = &msg.Msg
		case num == 3 && typ == protowire.BytesType:
			dst = &msg.Signature
		case num == 4 && typ == protowire.BytesType:
			dst = &msg.SessionKey
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, fmt.Errorf("skip field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}

		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, fmt.Errorf("consume field %d: %w", num, protowire.ParseError(n))
		}
		*dst = v
		b = b[n:]
	}

	if msg.Type == 0 {
		return nil, errors.New("message has no type")
	}

	return msg, nil
}
