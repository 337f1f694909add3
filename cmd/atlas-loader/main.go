// Command atlas-loader prints the DDL of the service tables for atlas.
//
//	data "external_schema" "gorm" {
//	  program = ["go", "run", "./cmd/atlas-loader"]
//	}
package main

import (
	"fmt"
	"os"

	"ariga.io/atlas-provider-gorm/gormschema"

	"github.com/guoxiaopeng875/txscope/internal/data"
	"github.com/guoxiaopeng875/txscope/pkg/env"
)

func main() {
	// mysql or postgres, matching data.databases.<alias>.driver
	dialect := env.GetOrDefault("ATLAS_DIALECT", "mysql")

	stmts, err := gormschema.New(dialect).Load(data.Models()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if _, err := os.Stdout.WriteString(stmts); err != nil {
		fmt.Fprintf(os.Stderr, "error writing output: %v\n", err)
		os.Exit(1)
	}
}
