//go:build ignore

// verify_report checks the Mappings sheet of a name-recon report for names
// that are not valid Java identifiers and for siblings sharing one name.
//
//	go run scripts/verify_report.go output/name-recon-report.xlsx
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"name-recon/internal/exporter"
	"name-recon/internal/naming"
)

func main() {
	filename := "output/name-recon-report.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(exporter.MappingsSheet)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== REPORT CHECK: %s ===\n", filename)
	fmt.Printf("Checking sheet: %s\n", exporter.MappingsSheet)
	fmt.Printf("Total rows: %d\n\n", len(rows))

	// Columns: Kind, Member, Descriptor, Slot, Name, Source, Proposer
	problems := 0
	owner := ""
	siblings := make(map[string]int)
	for i, row := range rows {
		if i == 0 || len(row) < 5 {
			continue
		}
		kind, member, desc, name := row[0], row[1], row[2], strings.TrimSpace(row[4])
		if kind == "[class]" {
			owner = member
			continue
		}
		if name == "" {
			continue
		}

		if !naming.IsValidIdentifier(name) {
			fmt.Printf("INVALID at row %d: %s %s.%s -> '%s'\n", i+1, kind, owner, member, name)
			problems++
		}

		// locals are siblings within their method, members within their class
		scope := owner + " " + kind
		if kind == "local" {
			scope = owner + "." + member + desc
		} else if kind == "method" {
			name += desc[:strings.IndexByte(desc, ')')+1]
		}
		key := scope + " " + name
		if first, dup := siblings[key]; dup {
			fmt.Printf("DUPLICATE at row %d: '%s' already used at row %d\n", i+1, name, first)
			problems++
		} else {
			siblings[key] = i + 1
		}
	}

	fmt.Println()
	if problems == 0 {
		fmt.Println("Report OK: every name is a valid identifier and unique among its siblings")
		return
	}
	fmt.Printf("Report has %d problems\n", problems)
	os.Exit(1)
}
