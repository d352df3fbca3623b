package getwvkeys

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Eyevinn/mp4ff/mp4"
	"google.golang.org/protobuf/encoding/protowire"
)

const WidevineSystemID = "edef8ba979d64acea3c827dcd51d21ed"

// PsshData holds the fields of a WidevinePsshData message that are useful
// for diagnostics. Unknown fields are skipped.
type PsshData struct {
	Algorithm        uint64
	KeyIDs           [][]byte
	Provider         string
	ContentID        []byte
	Policy           string
	ProtectionScheme uint32
}

type PSSH struct {
	box  *mp4.PsshBox
	data *PsshData
}

// ParsePSSH decodes a base64 encoded pssh box.
func ParsePSSH(s string) (*PSSH, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	return NewPSSH(b)
}

func NewPSSH(b []byte) (*PSSH, error) {
	box, err := mp4.DecodeBox(0, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode box: %w", err)
	}

	psshBox, ok := box.(*mp4.PsshBox)
	if !ok {
		return nil, fmt.Errorf("box is a %s instead of a PSSH", box.Type())
	}

	if hex.EncodeToString(psshBox.SystemID) != WidevineSystemID {
		return nil, fmt.Errorf("system id is %s instead of widevine", hex.EncodeToString(psshBox.SystemID))
	}

	data, err := unmarshalPsshData(psshBox.Data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal pssh data: %w", err)
	}

	return &PSSH{
		box:  psshBox,
		data: data,
	}, nil
}

func (p *PSSH) Version() byte {
	return p.box.Version
}

func (p *PSSH) Flags() uint32 {
	return p.box.Flags
}

func (p *PSSH) SystemID() string {
	return hex.EncodeToString(p.box.SystemID)
}

func (p *PSSH) RawData() []byte {
	return p.box.Data
}

func (p *PSSH) Data() *PsshData {
	return p.data
}

// KeyIDs returns the hex encoded key ids carried by the box header (version 1
// boxes) followed by the ones inside the Widevine data, without duplicates.
func (p *PSSH) KeyIDs() []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(p.box.KIDs)+len(p.data.KeyIDs))

	add := func(b []byte) {
		id := hex.EncodeToString(b)
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for _, kid := range p.box.KIDs {
		add(kid)
	}
	for _, kid := range p.data.KeyIDs {
		add(kid)
	}

	return ids
}

func unmarshalPsshData(b []byte) (*PsshData, error) {
	data := &PsshData{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == 1 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data.Algorithm = v
			b = b[n:]
		case num == 2 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data.KeyIDs = append(data.KeyIDs, bytes.Clone(v))
			b = b[n:]
		case num == 3 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data.Provider = string(v)
			b = b[n:]
		case num == 4 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data.ContentID = bytes.Clone(v)
			b = b[n:]
		case num == 6 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data.Policy = string(v)
			b = b[n:]
		case num == 9 && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data.ProtectionScheme = uint32(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}

	return data, nil
}
