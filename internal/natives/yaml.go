package natives

import (
	"fmt"

	"github.com/nxlang/nx/internal/vm"
	"gopkg.in/yaml.v3"
)

// yamlModule builds the Yaml module: parse(raw)/stringify(val), grounded on
// the YAML decode/encode pair bundled alongside Json's.
func yamlModule() *vm.ObjClass {
	class := vm.NewClass("Yaml")
	nativeFn(class, "parse", 1, nativeYAMLParse)
	nativeFn(class, "stringify", 1, nativeYAMLStringify)
	return class
}

func nativeYAMLParse(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	raw, ok := argString(args, 0)
	if !ok {
		return vm.Value{}, argError("Yaml.parse", "a string")
	}
	var data interface{}
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return vm.Nil(), nil
	}
	return yamlToValue(vmach, data), nil
}

func nativeYAMLStringify(vmach *vm.VM, args []vm.Value) (vm.Value, error) {
	if len(args) < 1 {
		return vm.Value{}, argError("Yaml.stringify", "a value")
	}
	data := valueToYAMLGo(vmach, args[0])
	out, err := yaml.Marshal(data)
	if err != nil {
		return vm.Value{}, fmt.Errorf("Yaml.stringify: %w", err)
	}
	return vm.Obj(vmach.InternString(string(out))), nil
}

// yamlToValue mirrors inferFromYaml: yaml.v3 decodes YAML integers as Go int
// (not float64, unlike encoding/json), so this only needs to split int vs.
// float on the float64 branch (reserved for an explicit YAML !!float tag).
func yamlToValue(vmach *vm.VM, data interface{}) vm.Value {
	switch v := data.(type) {
	case nil:
		return vm.Nil()
	case bool:
		return vm.Bool(v)
	case int:
		return vm.Int(int64(v))
	case int64:
		return vm.Int(v)
	case float64:
		return vm.Float(v)
	case string:
		return vm.Obj(vmach.InternString(v))
	case []interface{}:
		elems := make([]vm.Value, len(v))
		for i, item := range v {
			elems[i] = yamlToValue(vmach, item)
		}
		return vm.Obj(vmach.NewTrackedSeq(elems))
	case map[string]interface{}:
		fields := make(map[string]vm.Value, len(v))
		for k, val := range v {
			fields[k] = yamlToValue(vmach, val)
		}
		return vm.Obj(vmach.NewObjectLiteral(fields))
	case map[interface{}]interface{}:
		fields := make(map[string]vm.Value, len(v))
		for k, val := range v {
			fields[fmt.Sprintf("%v", k)] = yamlToValue(vmach, val)
		}
		return vm.Obj(vmach.NewObjectLiteral(fields))
	default:
		return vm.Nil()
	}
}

// valueToYAMLGo is yamlToValue's inverse, for Yaml.stringify.
func valueToYAMLGo(vmach *vm.VM, v vm.Value) interface{} {
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
				out[i] = valueToYAMLGo(vmach, e)
			}
			return out
		case *vm.ObjTuple:
			out := make([]interface{}, len(obj.Elements))
			for i, e := range obj.Elements {
				out[i] = valueToYAMLGo(vmach, e)
			}
			return out
		case *vm.ObjInstance:
			out := make(map[string]interface{}, len(obj.Fields))
			for k, f := range obj.Fields {
				out[k] = valueToYAMLGo(vmach, f)
			}
			return out
		default:
			return vmach.Stringify(v)
		}
	default:
		return vmach.Stringify(v)
	}
}
