package natives

import (
	"encoding/json"
	"fmt"

	"github.com/nxlang/nx/internal/vm"
)

// jsonModule builds the Json module: parse(raw)/stringify(val, indent).
func jsonModule() *vm.ObjClass {
	class := vm.NewClass("Json")
	nativeFn(class, "parse", 1, nativeJSONParse)
	nativeFn(class, "stringify", 2, nativeJSONStringify)
	return class
}

// nativeJSONParse is a documented stub: the bundled runtime it's grounded on
// never got around to implementing decoding, and this keeps that contract
// rather than quietly filling it in. Always answers nil.
func nativeJSONParse(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	return vm.Nil(), nil
}

func nativeJSONStringify(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	indentF, ok := argFloat(args, 1)
	if !ok {
		return vm.Value{}, argError("Json.stringify", "an int indent")
	}
	data := valueToJSONGo(vmach, args[0])

	var out []byte
	var err error
	if indent := int(indentF); indent > 0 {
		out, err = json.MarshalIndent(data, "", spaces(indent))
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return vm.Value{}, fmt.Errorf("Json.stringify: %w", err)
	}
	return vm.Obj(vmach.InternString(string(out))), nil
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// valueToJSONGo converts a Value into the plain Go shape encoding/json knows
// how to marshal: instances become map[string]interface{}, seqs and tuples
// become []interface{}, everything else maps onto its natural Go primitive.
// A value with no JSON shape of its own (a function, a class) falls back to
// its ordinary string rendering, quoted like any other string.
func valueToJSONGo(vmach *vm.VM, v vm.Value) interface{} {
	switch v.Type {
	case vm.ValNil:
		return nil
	case vm.ValBool:
		return v.AsBool()
	case vm.ValInt:
		return v.AsInt()
	case vm.ValFloat:
		return v.AsFloat()
	case vm.ValObj:
		switch obj := v.Obj.(type) {
		case *vm.ObjString:
			return obj.Value
		case *vm.ObjSeq:
			out := make([]interface{}, len(obj.Elements))
			for i, e := range obj.Elements {
				out[i] = valueToJSONGo(vmach, e)
			}
			return out
		case *vm.ObjTuple:
			out := make([]interface{}, len(obj.Elements))
			for i, e := range obj.Elements {
				out[i] = valueToJSONGo(vmach, e)
			}
			return out
		case *vm.ObjInstance:
			out := make(map[string]interface{}, len(obj.Fields))
			for k, f := range obj.Fields {
				out[k] = valueToJSONGo(vmach, f)
			}
			return out
		default:
			return vmach.Stringify(v)
		}
	default:
		return vmach.Stringify(v)
	}
}
