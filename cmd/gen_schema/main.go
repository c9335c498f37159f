// Command gen_schema writes the function declaration the model sees for one
// sub-agent, derived from that sub-agent's argument struct. Field names come
// from json tags, optional fields are the ones tagged omitempty, and the
// desc / enum tags fill in descriptions and allowed values.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"go/token"
	"go/types"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/Desarso/nexus/models"
	"golang.org/x/tools/go/packages"
)

func main() {
	typeName := flag.String("type", "", "Name of the argument struct to generate a declaration for")
	toolName := flag.String("name", "", "Tool name exposed to the model")
	description := flag.String("desc", "", "Tool description exposed to the model")
	dir := flag.String("dir", ".", "Package directory containing the struct")
	outDir := flag.String("out", "schemas", "Output directory for the generated schema")
	flag.Parse()

	if err := checkExtraArgs(flag.Args()); err != nil {
		log.Fatal(err)
	}
	if *typeName == "" || *toolName == "" {
		log.Fatal("both -type and -name must be provided")
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax,
		Dir:  *dir,
		Fset: token.NewFileSet(),
	}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		log.Fatalf("Failed to load package in '%s': %v", *dir, err)
	}
	if len(pkgs) == 0 {
		log.Fatalf("No packages found in '%s'", *dir)
	}
	pkg := pkgs[0]

	var loadErrors []string
	for _, e := range pkg.Errors {
		loadErrors = append(loadErrors, e.Error())
	}
	if len(loadErrors) > 0 {
		log.Fatalf("Errors during package loading/type checking:\n%s", strings.Join(loadErrors, "\n"))
	}

	obj := pkg.Types.Scope().Lookup(*typeName)
	if obj == nil {
		log.Fatalf("Type '%s' not found in package '%s'", *typeName, pkg.PkgPath)
	}
	st, ok := obj.Type().Underlying().(*types.Struct)
	if !ok {
		log.Fatalf("'%s' is not a struct type", *typeName)
	}

	decl, err := buildDeclaration(st, *toolName, *description)
	if err != nil {
		log.Fatalf("Failed to build declaration for '%s': %v", *typeName, err)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("Failed to create directory '%s': %v", *outDir, err)
	}
	schemaJSON, err := json.MarshalIndent(decl, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal schema to JSON: %v", err)
	}
	outputFile := filepath.Join(*outDir, *toolName+".json")
	if err := os.WriteFile(outputFile, append(schemaJSON, '\n'), 0644); err != nil {
		log.Fatalf("Failed to write schema to file '%s': %v", outputFile, err)
	}

	log.Printf("Generated declaration for '%s' from %s.%s -> %s", *toolName, pkg.PkgPath, *typeName, outputFile)
}

// checkExtraArgs rejects leftover words, which is what an unquoted
// -desc="a b c" turns into under go generate.
func checkExtraArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %q; quote values containing spaces as \"-flag=value\"", args)
	}
	return nil
}

func buildDeclaration(st *types.Struct, name, description string) (models.FunctionDeclaration, error) {
	params := models.Parameters{
		Type:       "object",
		Properties: make(map[string]models.Property),
		Required:   []string{},
	}

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		tag := reflect.StructTag(st.Tag(i))
		jsonInfo := parseJsonTag(tag)
		if jsonInfo.Name == "-" {
			continue
		}
		fieldName := field.Name()
		if jsonInfo.Name != "" {
			fieldName = jsonInfo.Name
		}

		typ, err := jsonType(field.Type())
		if err != nil {
			return models.FunctionDeclaration{}, fmt.Errorf("field %s: %w", field.Name(), err)
		}

		prop := models.Property{Type: typ, Description: tag.Get("desc")}
		if enum := tag.Get("enum"); enum != "" {
			prop.Enum = strings.Split(enum, ",")
		}
		params.Properties[fieldName] = prop

		if !jsonInfo.OmitEmpty {
			params.Required = append(params.Required, fieldName)
		}
	}
	sort.Strings(params.Required)

	return models.FunctionDeclaration{
		Name:        name,
		Description: description,
		Parameters:  params,
	}, nil
}

// jsonType maps the basic Go kinds a tool argument may use onto JSON schema types.
func jsonType(t types.Type) (string, error) {
	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return "", fmt.Errorf("unsupported argument type %s", t.String())
	}
	switch basic.Kind() {
	case types.String:
		return "string", nil
	case types.Bool:
		return "boolean", nil
	case types.Int, types.Int8, types.Int16, types.Int32, types.Int64,
		types.Uint, types.Uint8, types.Uint16, types.Uint32, types.Uint64:
		return "integer", nil
	case types.Float32, types.Float64:
		return "number", nil
	}
	return "", fmt.Errorf("unsupported basic type %s", basic.String())
}

// jsonTagInfo holds parsed information from a `json:"..."` struct tag.
type jsonTagInfo struct {
	Name      string
	OmitEmpty bool
}

func parseJsonTag(tag reflect.StructTag) jsonTagInfo {
	jsonValue := tag.Get("json")
	if jsonValue == "" {
		return jsonTagInfo{}
	}
	parts := strings.Split(jsonValue, ",")
	info := jsonTagInfo{Name: parts[0]}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			info.OmitEmpty = true
		}
	}
	return info
}
