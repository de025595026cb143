package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mickamy/osfadapter/internal/gen"
	"github.com/mickamy/osfadapter/internal/naming"
)

var version = "dev"

func main() {
	typeName := flag.String("type", "", "struct type name (required)")
	resourceType := flag.String("resource", "", "resource type (optional; inferred from the primary tag or -type if omitted)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("osfgen", version)
		return
	}

	if *typeName == "" {
		log.Fatal("-type flag is required")
	}

	goFile := os.Getenv("GOFILE")
	if goFile == "" {
		log.Fatal("GOFILE environment variable is not set (run via go:generate)")
	}

	infos, err := gen.Parse(goFile)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	var info *gen.StructInfo
	for _, i := range infos {
		if i.Name == *typeName {
			info = i
			break
		}
	}
	if info == nil {
		log.Fatalf("type %s not found in %s (or has no jsonapi tags)", *typeName, goFile)
	}

	if *resourceType != "" {
		info.Type = *resourceType
	}

	src, err := gen.Render(info)
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	outFile := naming.CamelToSnake(*typeName) + "_gen.go"
	outPath := filepath.Join(filepath.Dir(goFile), outFile)

	if err := os.WriteFile(outPath, src, 0o644); err != nil { //nolint:gosec // generated code should be world-readable
		log.Fatalf("write %s: %v", outPath, err)
	}

	fmt.Printf("osfgen: wrote %s\n", outPath)
}
