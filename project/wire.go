package project

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v3"
	"github.com/pledgeforge/contractcore/txmodel"
	"google.golang.org/protobuf/encoding/protowire"
)

// Wire field numbers for the ProjectDetails message (spec.md §6). The
// numbers are contiguous; a future field takes a number above 10, and
// Unmarshal skips numbers it does not know, so older parsers keep
// reading newer descriptors.
const (
	fieldTitle        = 1
	fieldMemo         = 2
	fieldOutputs      = 3 // repeated embedded Output message
	fieldTime         = 4
	fieldAuthKey      = 5
	fieldAuthKeyIndex = 6
	fieldPaymentURL   = 7
	fieldMerchantData = 8
	fieldExpires      = 9
	fieldExtra        = 10 // repeated embedded {key, value}
)

// Wire field numbers for the nested Output message.
const (
	outputFieldAmount  = 1
	outputFieldScript  = 2
	outputFieldVersion = 3
)

// Wire field numbers for the nested extra-metadata entry message.
const (
	extraFieldKey   = 1
	extraFieldValue = 2
)

// Marshal produces the canonical ProjectDetails wire encoding. Field
// order is deterministic (ascending field number) so two descriptors
// with identical content always produce identical bytes, which ID
// depends on.
func (d *Descriptor) Marshal() ([]byte, error) {
	var b []byte

	b = protowire.AppendTag(b, fieldTitle, protowire.BytesType)
	b = protowire.AppendString(b, d.title)

	b = protowire.AppendTag(b, fieldMemo, protowire.BytesType)
	b = protowire.AppendString(b, d.memo)

	for _, out := range d.outputs {
		b = protowire.AppendTag(b, fieldOutputs, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalOutput(out))
	}

	b = protowire.AppendTag(b, fieldTime, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(d.time))

	b = protowire.AppendTag(b, fieldAuthKey, protowire.BytesType)
	b = protowire.AppendBytes(b, d.authKey)

	b = protowire.AppendTag(b, fieldAuthKeyIndex, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(d.authKeyIndex))

	if d.paymentURL != "" {
		b = protowire.AppendTag(b, fieldPaymentURL, protowire.BytesType)
		b = protowire.AppendString(b, d.paymentURL)
	}
	if len(d.merchantData) > 0 {
		b = protowire.AppendTag(b, fieldMerchantData, protowire.BytesType)
		b = protowire.AppendBytes(b, d.merchantData)
	}
	if d.expires != 0 {
		b = protowire.AppendTag(b, fieldExpires, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(d.expires))
	}
	for _, k := range sortedKeys(d.extra) {
		b = protowire.AppendTag(b, fieldExtra, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalExtraEntry(k, d.extra[k]))
	}

	return b, nil
}

func marshalOutput(out txmodel.Output) []byte {
	var b []byte
	b = protowire.AppendTag(b, outputFieldAmount, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(out.Amount))
	b = protowire.AppendTag(b, outputFieldScript, protowire.BytesType)
	b = protowire.AppendBytes(b, out.Script)
	b = protowire.AppendTag(b, outputFieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(out.Version))
	return b
}

func marshalExtraEntry(key, value string) []byte {
	var b []byte
	b = protowire.AppendTag(b, extraFieldKey, protowire.BytesType)
	b = protowire.AppendString(b, key)
	b = protowire.AppendTag(b, extraFieldValue, protowire.BytesType)
	b = protowire.AppendString(b, value)
	return b
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// Unmarshal parses a ProjectDetails wire encoding. Unknown field numbers
// are skipped, not rejected, so an older parser can read a newer
// descriptor that carries fields it doesn't understand yet.
func Unmarshal(raw []byte) (*Descriptor, error) {
	d := &Descriptor{extra: make(map[string]string)}

	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return nil, fmt.Errorf("project: malformed tag: %w", protowire.ParseError(n))
		}
		raw = raw[n:]

		switch num {
		case fieldTitle:
			v, n, err := consumeString(raw, typ)
			if err != nil {
				return nil, fmt.Errorf("project: title: %w", err)
			}
			d.title, raw = v, raw[n:]
		case fieldMemo:
			v, n, err := consumeString(raw, typ)
			if err != nil {
				return nil, fmt.Errorf("project: memo: %w", err)
			}
			d.memo, raw = v, raw[n:]
		case fieldOutputs:
			buf, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, fmt.Errorf("project: outputs: %w", protowire.ParseError(n))
			}
			out, err := unmarshalOutput(buf)
			if err != nil {
				return nil, fmt.Errorf("project: outputs: %w", err)
			}
			d.outputs = append(d.outputs, out)
			raw = raw[n:]
		case fieldTime:
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return nil, fmt.Errorf("project: time: %w", protowire.ParseError(n))
			}
			d.time, raw = int64(v), raw[n:]
		case fieldAuthKey:
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, fmt.Errorf("project: authKey: %w", protowire.ParseError(n))
			}
			d.authKey = append([]byte(nil), v...)
			raw = raw[n:]
		case fieldAuthKeyIndex:
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return nil, fmt.Errorf("project: authKeyIndex: %w", protowire.ParseError(n))
			}
			d.authKeyIndex, raw = uint32(v), raw[n:]
		case fieldPaymentURL:
			v, n, err := consumeString(raw, typ)
			if err != nil {
				return nil, fmt.Errorf("project: paymentUrl: %w", err)
			}
			d.paymentURL, raw = v, raw[n:]
		case fieldMerchantData:
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, fmt.Errorf("project: merchantData: %w", protowire.ParseError(n))
			}
			d.merchantData = append([]byte(nil), v...)
			raw = raw[n:]
		case fieldExpires:
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return nil, fmt.Errorf("project: expires: %w", protowire.ParseError(n))
			}
			d.expires, raw = int64(v), raw[n:]
		case fieldExtra:
			buf, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return nil, fmt.Errorf("project: extra: %w", protowire.ParseError(n))
			}
			k, v, err := unmarshalExtraEntry(buf)
			if err != nil {
				return nil, fmt.Errorf("project: extra: %w", err)
			}
			d.extra[k] = v
			raw = raw[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return nil, fmt.Errorf("project: unknown field %d: %w", num, protowire.ParseError(n))
			}
			raw = raw[n:]
		}
	}

	return d, nil
}

func consumeString(raw []byte, typ protowire.Type) (string, int, error) {
	if typ != protowire.BytesType {
		return "", 0, fmt.Errorf("unexpected wire type %v", typ)
	}
	v, n := protowire.ConsumeBytes(raw)
	if n < 0 {
		return "", 0, protowire.ParseError(n)
	}
	return string(v), n, nil
}

func unmarshalOutput(raw []byte) (txmodel.Output, error) {
	var out txmodel.Output
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return out, protowire.ParseError(n)
		}
		raw = raw[n:]

		switch num {
		case outputFieldAmount:
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			out.Amount, raw = int64(v), raw[n:]
		case outputFieldScript:
			v, n := protowire.ConsumeBytes(raw)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			out.Script = append([]byte(nil), v...)
			raw = raw[n:]
		case outputFieldVersion:
			v, n := protowire.ConsumeVarint(raw)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			out.Version, raw = uint16(v), raw[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return out, protowire.ParseError(n)
			}
			raw = raw[n:]
		}
	}
	return out, nil
}

func unmarshalExtraEntry(raw []byte) (key, value string, err error) {
	for len(raw) > 0 {
		num, typ, n := protowire.ConsumeTag(raw)
		if n < 0 {
			return "", "", protowire.ParseError(n)
		}
		raw = raw[n:]

		switch num {
		case extraFieldKey:
			v, n, err := consumeString(raw, typ)
			if err != nil {
				return "", "", err
			}
			key, raw = v, raw[n:]
		case extraFieldValue:
			v, n, err := consumeString(raw, typ)
			if err != nil {
				return "", "", err
			}
			value, raw = v, raw[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, raw)
			if n < 0 {
				return "", "", protowire.ParseError(n)
			}
			raw = raw[n:]
		}
	}
	return key, value, nil
}

// ParsePubKeyFromDescriptor is a convenience identical to AuthKey, kept
// for callers that only hold raw descriptor bytes.
func ParsePubKeyFromDescriptor(raw []byte) (*secp256k1.PublicKey, error) {
	d, err := Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	return d.AuthKey()
}
