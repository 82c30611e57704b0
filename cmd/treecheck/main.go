// treecheck validates tessella decision-tree files.
//
//	treecheck tree.json [tree2.json ...]
//
// Each file is checked against the embedded tree schema and for referential
// integrity (start node exists, every answer points at a known node). With
// -builtin, the embedded trees are checked instead. Exits nonzero on the
// first failure.
package main

import (
	"flag"
	"fmt"
	"os"

	"tessella/internal/tree"
)

func main() {
	builtin := flag.Bool("builtin", false, "validate the embedded trees")
	flag.Parse()

	if *builtin {
		for _, id := range tree.BuiltinIDs() {
			t, err := tree.Builtin(id)
			if err != nil {
				fail("builtin %s: %v", id, err)
			}
			report(id, t)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: treecheck [-builtin] <tree.json> ...")
		os.Exit(2)
	}

	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fail("%s: %v", path, err)
		}
		t, err := tree.Load(data)
		if err != nil {
			fail("%s: %v", path, err)
		}
		report(path, t)
	}
}

func report(name string, t *tree.Tree) {
	questions, leaves := 0, 0
	for _, n := range t.Nodes {
		if n.Question != nil {
			questions++
		} else {
			leaves++
		}
	}
	fmt.Printf("%s: ok (%s, %d questions, %d leaves)\n", name, t.Name, questions, leaves)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "treecheck: "+format+"\n", args...)
	os.Exit(1)
}
