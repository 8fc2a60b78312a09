package abi

import (
	"fmt"
	"log/slog"
	"math/big"
	"reflect"
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/calldata-lens/internal/domain"
	"github.com/trebuchet-org/calldata-lens/internal/domain/signature"
	"github.com/trebuchet-org/calldata-lens/internal/usecase"
)

// CalldataDecoder decodes a calldata tail against a text signature by
// building the ABI argument list on the fly.
type CalldataDecoder struct {
	log *slog.Logger
}

var _ usecase.ArgumentDecoder = (*CalldataDecoder)(nil)

// NewCalldataDecoder creates a new calldata decoder
func NewCalldataDecoder(log *slog.Logger) *CalldataDecoder {
	return &CalldataDecoder{log: log.With("component", "CalldataDecoder")}
}

// Decode unpacks tail into one parameter per formal argument of sig.
// Unnamed arguments are called param0, param1 and so on.
func (d *CalldataDecoder) Decode(sig string, tail []byte) ([]domain.Parameter, error) {
	args, names, err := Arguments(sig)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return []domain.Parameter{}, nil
	}

	values, err := args.Unpack(tail)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", sig, err)
	}
	if len(values) != len(args) {
		return nil, fmt.Errorf("failed to unpack %s: got %d values for %d arguments", sig, len(values), len(args))
	}

	params := make([]domain.Parameter, len(args))
	for i, arg := range args {
		params[i] = domain.Parameter{
			Name:  names[i],
			Type:  signature.CanonicalType(arg.Type.String()),
			Value: Normalize(values[i]),
		}
	}
	d.log.Debug("Decoded arguments", "signature", sig, "count", len(params))
	return params, nil
}

// Arguments builds the ABI argument list for a text signature. names holds
// the display name of every argument.
func Arguments(sig string) (args abi.Arguments, names []string, err error) {
	_, params := signature.Split(sig)
	for i, p := range params {
		typ, err := newType(signature.TypeOf(p))
		if err != nil {
			return nil, nil, fmt.Errorf("argument %d of %s: %w", i, sig, err)
		}

		name := signature.NameOf(p)
		if name == "" {
			name = fmt.Sprintf("param%d", i)
		}
		args = append(args, abi.Argument{Name: name, Type: typ})
		names = append(names, name)
	}
	return args, names, nil
}

func newType(text string) (abi.Type, error) {
	m, err := marshaling("", text, 0)
	if err != nil {
		return abi.Type{}, err
	}
	typ, err := abi.NewType(m.Type, "", m.Components)
	if err != nil {
		return abi.Type{}, fmt.Errorf("%w: %s: %v", domain.ErrUnsupportedType, text, err)
	}
	return typ, nil
}

// marshaling turns a type text into the JSON ABI form go-ethereum builds
// tuple types from. Tuple fields need a usable Go name, so missing ones are
// synthesized.
func marshaling(name, text string, index int) (abi.ArgumentMarshaling, error) {
	if !validFieldName(name) {
		name = fmt.Sprintf("field%d", index)
	}

	components, suffix, ok := signature.TupleComponents(text)
	if !ok {
		typ := signature.CanonicalType(text)
		if typ == "" {
			return abi.ArgumentMarshaling{}, fmt.Errorf("%w: empty type", domain.ErrUnsupportedType)
		}
		return abi.ArgumentMarshaling{Name: name, Type: typ}, nil
	}
	if len(components) == 0 {
		return abi.ArgumentMarshaling{}, fmt.Errorf("%w: empty tuple", domain.ErrUnsupportedType)
	}

	m := abi.ArgumentMarshaling{Name: name, Type: "tuple" + suffix}
	for i, c := range components {
		sub, err := marshaling(signature.NameOf(c), signature.TypeOf(c), i)
		if err != nil {
			return abi.ArgumentMarshaling{}, err
		}
		m.Components = append(m.Components, sub)
	}
	return m, nil
}

func validFieldName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !unicode.IsLetter(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}

// Normalize converts a value unpacked by go-ethereum into plain strings,
// bools, slices and maps. Integers become decimal strings so that no width
// is lost in JSON.
func Normalize(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case common.Address:
		return v.Hex()
	case *big.Int:
		return v.String()
	case []byte:
		return hexutil.Encode(v)
	case string, bool:
		return v
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		return normalizeList(rv)
	case reflect.Slice:
		return normalizeList(rv)
	case reflect.Struct:
		out := make(map[string]any, rv.NumField())
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			key := field.Tag.Get("json")
			if key == "" {
				key = strings.ToLower(field.Name[:1]) + field.Name[1:]
			}
			out[key] = Normalize(rv.Field(i).Interface())
		}
		return out
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return fmt.Sprintf("%v", value)
}

func normalizeList(rv reflect.Value) []any {
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = Normalize(rv.Index(i).Interface())
	}
	return out
}
