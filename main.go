// Package main is the entry point for the mutator CLI.
package main

import "github.com/robert-oleynik/AI4SE-Mutation-Testing/cmd"

func main() {
	cmd.Execute()
}
