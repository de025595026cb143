package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"

	"github.com/mickamy/osfadapter/internal/naming"
)

// AttrInfo holds parsed metadata for one attribute field.
type AttrInfo struct {
	Name   string // Go field name, e.g. "LogoPath"
	Member string // document member name, e.g. "logo_path"
	GoType string // Go type as string, e.g. "string"
}

// RelationInfo holds parsed metadata for one relationship field.
type RelationInfo struct {
	Name         string // Go field name, e.g. "Preprints"
	Member       string // relationship name, e.g. "preprints"
	GoType       string // e.g. "[]*Preprint"
	RelType      string // "has_many" or "belongs_to"
	Target       string // related resource type, e.g. "preprint"
	Inverse      string
	Serializer   string // name of a func(*store.Record) ([]byte, error) in the same package
	UpdateMethod string
}

// StructInfo holds parsed metadata for one model struct.
type StructInfo struct {
	Name          string // Go struct name, e.g. "PreprintProvider"
	Package       string // Package name, e.g. "model"
	Type          string // resource type, e.g. "preprint-provider"
	Attributes    []AttrInfo
	Relationships []RelationInfo
}

// Parse reads the Go file at path and returns StructInfo for every struct
// that has at least one field with a jsonapi tag.
func Parse(filePath string) ([]*StructInfo, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	pkg := file.Name.Name
	var infos []*StructInfo
	var parseErr error

	ast.Inspect(file, func(n ast.Node) bool {
		if parseErr != nil {
			return false
		}
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}

		st, ok := ts.Type.(*ast.StructType)
		if !ok || !hasJSONAPITag(st) {
			return true
		}

		info := &StructInfo{
			Name:    ts.Name.Name,
			Package: pkg,
			Type:    naming.Dasherize(ts.Name.Name),
		}
		if err := parseStructFields(info, st); err != nil {
			parseErr = fmt.Errorf("%s: %w", ts.Name.Name, err)
			return false
		}
		infos = append(infos, info)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return infos, nil
}

func hasJSONAPITag(st *ast.StructType) bool {
	for _, field := range st.Fields.List {
		if _, ok := lookupTag(field, "jsonapi"); ok {
			return true
		}
	}
	return false
}

func lookupTag(field *ast.Field, key string) (string, bool) {
	if field.Tag == nil {
		return "", false
	}
	tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
	return tag.Lookup(key)
}

// parseStructFields fills info from the struct's fields. Untagged exported
// fields become attributes named after the field; an untagged ID field is
// the primary key.
func parseStructFields(info *StructInfo, st *ast.StructType) error {
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 || !field.Names[0].IsExported() {
			continue // embedded or unexported
		}
		name := field.Names[0].Name
		goType := typeToString(field.Type)

		tag, ok := lookupTag(field, "jsonapi")
		if !ok {
			if name != "ID" {
				info.Attributes = append(info.Attributes, AttrInfo{Name: name, Member: naming.CamelToSnake(name), GoType: goType})
			}
			continue
		}
		if tag == "-" {
			continue
		}

		parts := strings.Split(tag, ",")
		switch parts[0] {
		case "primary":
			if len(parts) > 1 && parts[1] != "" {
				info.Type = parts[1]
			}
		case "attr":
			member := naming.CamelToSnake(name)
			if len(parts) > 1 && parts[1] != "" {
				member = parts[1]
			}
			info.Attributes = append(info.Attributes, AttrInfo{Name: name, Member: member, GoType: goType})
		case "relation":
			rel, err := parseRelation(field, name, goType, parts)
			if err != nil {
				return err
			}
			info.Relationships = append(info.Relationships, rel)
		default:
			return fmt.Errorf("field %s: unknown jsonapi tag kind %q", name, parts[0])
		}
	}
	return nil
}

func parseRelation(field *ast.Field, name, goType string, parts []string) (RelationInfo, error) {
	rel := RelationInfo{
		Name:    name,
		Member:  naming.CamelToSnake(name),
		GoType:  goType,
		RelType: "belongs_to",
		Target:  naming.Dasherize(elemTypeName(goType)),
	}
	if strings.HasPrefix(goType, "[]") {
		rel.RelType = "has_many"
	}
	if len(parts) > 1 && parts[1] != "" {
		rel.Member = parts[1]
	}

	relTag, ok := lookupTag(field, "rel")
	if !ok {
		return rel, nil
	}
	for i, opt := range strings.Split(relTag, ",") {
		key, value, hasValue := strings.Cut(opt, ":")
		if i == 0 && !hasValue {
			if key != "has_many" && key != "belongs_to" {
				return RelationInfo{}, fmt.Errorf("field %s: unknown relation kind %q", name, key)
			}
			rel.RelType = key
			continue
		}
		switch key {
		case "type":
			rel.Target = value
		case "inverse":
			rel.Inverse = value
		case "serializer":
			rel.Serializer = value
		case "update_method":
			rel.UpdateMethod = strings.ToUpper(value)
		default:
			return RelationInfo{}, fmt.Errorf("field %s: unknown rel option %q", name, key)
		}
	}
	return rel, nil
}

// elemTypeName strips slice, pointer and package qualifiers:
// "[]*model.Preprint" → "Preprint".
func elemTypeName(goType string) string {
	t := strings.TrimLeft(goType, "[]*")
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		t = t[i+1:]
	}
	return t
}

func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", typeToString(t.Len), typeToString(t.Elt))
	case *ast.MapType:
		return "map[" + typeToString(t.Key) + "]" + typeToString(t.Value)
	default:
		return fmt.Sprintf("%T", expr)
	}
}
