package duck

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// tagName is the struct tag consulted by ContractFor and Decode.
const tagName = "duck"

// ContractFor derives a value-member contract from a struct type.
// Exported fields map to required members; the `duck` tag overrides the
// member name, and `duck:"-"` excludes a field.
func ContractFor(name string, v any) (Contract, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return Contract{}, fmt.Errorf("contract source must be a struct, got %T", v)
	}

	c := Contract{Name: name}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		member := memberName(field)
		if member == "" {
			continue
		}
		c.Members = append(c.Members, MemberSpec{Name: member, Kind: KindValue})
	}
	if len(c.Members) == 0 {
		return Contract{}, fmt.Errorf("contract %s declares no members", name)
	}
	return c, nil
}

func memberName(field reflect.StructField) string {
	tag := field.Tag.Get(tagName)
	if tag == "-" {
		return ""
	}
	if tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return field.Name
}

// Decode validates the target against a contract derived from out's
// type, snapshots the declared members, and decodes them into out.
// Conversion failures surface as TypeConversionError.
func Decode(ctx context.Context, f *forward.Forwarder, out any) error {
	contract, err := ContractFor(structName(out), out)
	if err != nil {
		return err
	}

	bound, err := Bind(f, contract)
	if err != nil {
		return err
	}

	snapshot := make(map[string]any, len(contract.Members))
	for _, m := range contract.Members {
		v, err := bound.Read(ctx, m.Name)
		if err != nil {
			return err
		}
		snapshot[m.Name] = v
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          tagName,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(snapshot); err != nil {
		return &forward.TypeConversionError{Value: snapshot, Want: fmt.Sprintf("%T", out), Cause: err}
	}
	return nil
}

func structName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "struct"
	}
	return t.Name()
}
