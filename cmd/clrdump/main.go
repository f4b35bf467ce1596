// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	pe "github.com/clrmeta/clrmeta"
	"github.com/spf13/cobra"
)

var (
	wantTables  bool
	wantAssembly bool
	wantTypes   bool
	wantAll     bool
	typeName    string
)

func prettyPrint(v interface{}) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<marshal error: %s>", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "\t"); err != nil {
		return string(buf)
	}
	return pretty.String()
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// tableSummary is a JSON-friendly row count for one metadata table; the
// table row types themselves carry only unexported database-backed
// state, so the dump surface reports shapes like this rather than
// marshalling a row type directly.
type tableSummary struct {
	Name     string `json:"name"`
	RowCount uint32 `json:"row_count"`
}

type assemblySummary struct {
	Name    string `json:"name"`
	Culture string `json:"culture,omitempty"`
	Version string `json:"version"`
	Flags   uint32 `json:"flags"`
}

type typeDefSummary struct {
	RID          uint32 `json:"rid"`
	Namespace    string `json:"namespace"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	FieldCount   int    `json:"field_count"`
	MethodCount  int    `json:"method_count"`
	AttrCount    int    `json:"custom_attribute_count"`
}

func dumpTables(db *pe.Database) []tableSummary {
	names := []string{
		"Module", "TypeRef", "TypeDef", "Field", "MethodDef", "Param",
		"InterfaceImpl", "MemberRef", "Constant", "CustomAttribute",
		"FieldMarshal", "DeclSecurity", "ClassLayout", "FieldLayout",
		"StandAloneSig", "EventMap", "Event", "PropertyMap", "Property",
		"MethodSemantics", "MethodImpl", "ModuleRef", "TypeSpec",
		"ImplMap", "FieldRVA", "Assembly", "AssemblyProcessor",
		"AssemblyOS", "AssemblyRef", "AssemblyRefProcessor",
		"AssemblyRefOS", "File", "ExportedType", "ManifestResource",
		"NestedClass", "GenericParam", "MethodSpec",
		"GenericParamConstraint",
	}
	out := make([]tableSummary, 0, len(names))
	for _, n := range names {
		out = append(out, tableSummary{Name: n, RowCount: db.RowCount(n)})
	}
	return out
}

func dumpAssembly(db *pe.Database) []assemblySummary {
	out := make([]assemblySummary, 0, db.AssemblyCount())
	for i := uint32(0); i < db.AssemblyCount(); i++ {
		a, err := db.Assembly(i)
		if err != nil {
			continue
		}
		name, _ := a.Name()
		culture, _ := a.Culture()
		v := a.Version()
		out = append(out, assemblySummary{
			Name:    name,
			Culture: culture,
			Version: fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision),
			Flags:   uint32(a.Flags()),
		})
	}
	return out
}

func dumpTypes(db *pe.Database) []typeDefSummary {
	out := make([]typeDefSummary, 0, db.TypeDefCount())
	for i := uint32(0); i < db.TypeDefCount(); i++ {
		td, err := db.TypeDef(i)
		if err != nil {
			continue
		}
		name, _ := td.Name()
		namespace, _ := td.Namespace()
		out = append(out, typeDefSummary{
			RID:         td.RID(),
			Namespace:   namespace,
			Name:        name,
			Category:    td.TypeCategory().String(),
			FieldCount:  td.Fields().Len(),
			MethodCount: td.Methods().Len(),
			AttrCount:   len(td.CustomAttributes()),
		})
	}
	return out
}

func dumpOne(filename string, cmd *cobra.Command) {
	db, f, err := pe.LoadFile(filename)
	if err != nil {
		log.Printf("skipping %s: %s", filename, err)
		return
	}
	defer f.Close()

	fmt.Printf("=== %s ===\n", filename)

	if wantTables || wantAll {
		fmt.Println(prettyPrint(dumpTables(db)))
	}
	if wantAssembly || wantAll {
		fmt.Println(prettyPrint(dumpAssembly(db)))
	}
	if wantTypes || wantAll {
		fmt.Println(prettyPrint(dumpTypes(db)))
	}
}

func dump(cmd *cobra.Command, args []string) {
	path := args[0]
	if !isDirectory(path) {
		dumpOne(path, cmd)
		return
	}

	var files []string
	filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	for _, f := range files {
		dumpOne(f, cmd)
	}
}

func query(cmd *cobra.Command, args []string) {
	path := args[0]
	db, f, err := pe.LoadFile(path)
	if err != nil {
		log.Fatalf("opening %s: %s", path, err)
	}
	defer f.Close()

	cache := pe.NewCache()
	cache.Insert(db)

	td, ok := cache.ResolveTypeName(typeName)
	if !ok {
		log.Fatalf("type %q not found in %s", typeName, path)
	}

	name, _ := td.Name()
	namespace, _ := td.Namespace()
	summary := typeDefSummary{
		RID:         td.RID(),
		Namespace:   namespace,
		Name:        name,
		Category:    td.TypeCategory().String(),
		FieldCount:  td.Fields().Len(),
		MethodCount: td.Methods().Len(),
		AttrCount:   len(td.CustomAttributes()),
	}
	fmt.Println(prettyPrint(summary))
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "clrdump",
		Short: "A CLI metadata reader for .NET PE images",
		Long:  "Dumps the ECMA-335 CLI metadata tables of a .winmd/.dll/.exe",
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("clrdump version 0.1.0")
		},
	}

	var dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Dumps the CLI metadata of a file or directory of files",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	var queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Resolves a dotted type name against one assembly's metadata",
		Args:  cobra.ExactArgs(1),
		Run:   query,
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(queryCmd)

	dumpCmd.Flags().BoolVarP(&wantTables, "tables", "", false, "Dump row counts of every metadata table")
	dumpCmd.Flags().BoolVarP(&wantAssembly, "assembly", "", false, "Dump the Assembly table")
	dumpCmd.Flags().BoolVarP(&wantTypes, "types", "", false, "Dump every TypeDef")
	dumpCmd.Flags().BoolVarP(&wantAll, "all", "", false, "Dump everything")

	queryCmd.Flags().StringVarP(&typeName, "type", "t", "", "Dotted type name to resolve, e.g. System.String")
	queryCmd.MarkFlagRequired("type")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
