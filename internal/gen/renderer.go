package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/mickamy/osfadapter/internal/naming"
)

// Render generates the Go source code for a single StructInfo.
// The returned bytes are formatted by gofmt.
func Render(info *StructInfo) ([]byte, error) {
	return RenderFile([]*StructInfo{info})
}

// RenderFile generates a single Go source file for all given StructInfos.
// The returned bytes are formatted by gofmt.
func RenderFile(infos []*StructInfo) ([]byte, error) {
	if len(infos) == 0 {
		return nil, errors.New("no structs to render")
	}

	structs := make([]templateData, 0, len(infos))
	for _, info := range infos {
		if info.Type == "" {
			return nil, fmt.Errorf("%s: empty resource type", info.Name)
		}
		structs = append(structs, templateData{
			TypeName:      info.Name,
			SchemaFunc:    info.Name + "Schema",
			ResourceType:  info.Type,
			Path:          naming.PathForType(info.Type),
			Attributes:    info.Attributes,
			Relationships: info.Relationships,
		})
	}

	fileData := fileTemplateData{
		Package: infos[0].Package,
		Structs: structs,
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, fileData); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gofmt: %w", err)
	}
	return src, nil
}

type fileTemplateData struct {
	Package string
	Structs []templateData
}

type templateData struct {
	TypeName      string
	SchemaFunc    string
	ResourceType  string
	Path          string
	Attributes    []AttrInfo
	Relationships []RelationInfo
}

func kindConst(relType string) string {
	if relType == "has_many" {
		return "store.HasMany"
	}
	return "store.BelongsTo"
}

var funcMap = template.FuncMap{
	"join": strings.Join,
	"quote": func(s string) string {
		return `"` + s + `"`
	},
	"kind": kindConst,
}

var fileTmpl = template.Must(template.New("gen").Funcs(funcMap).Parse(fileTemplate))

const fileTemplate = `// Code generated by osfgen; DO NOT EDIT.
package {{.Package}}

import "github.com/mickamy/osfadapter/store"
{{range .Structs}}
// {{.SchemaFunc}} returns the store schema for the {{.ResourceType}} resource.
func {{.SchemaFunc}}() store.Schema {
	return store.Schema{
		Type: {{quote .ResourceType}},
		Path: store.ResolvePath[{{.TypeName}}]({{quote .Path}}),
		Attributes: []string{ {{- range $i, $a := .Attributes}}{{if $i}}, {{end}}{{quote $a.Member}}{{end -}} },
		{{- if .Relationships}}
		Relationships: []store.Relationship{
			{{- range .Relationships}}
			{
				Name: {{quote .Member}},
				Type: {{quote .Target}},
				Kind: {{kind .RelType}},
				{{- if .Inverse}}
				Inverse: {{quote .Inverse}},
				{{- end}}
				{{- if .Serializer}}
				Serializer: {{.Serializer}},
				{{- end}}
				{{- if .UpdateMethod}}
				UpdateMethod: {{quote .UpdateMethod}},
				{{- end}}
			},
			{{- end}}
		},
		{{- end}}
	}
}
{{end}}`
